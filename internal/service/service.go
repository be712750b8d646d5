// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives decoded
// requests from handlers, builds domain records and persists them through
// the repository interfaces.
package service
