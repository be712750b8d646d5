// Package lib holds infrastructure that does not belong to a single layer:
// background jobs on asynq (job) and Kafka event publishing (event).
package lib
