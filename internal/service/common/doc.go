// Package common holds helpers shared by the pipeline stages, currently the
// run marker guarding the staging directory against overlapping runs.
package common
