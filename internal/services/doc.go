// Package services contains the application service layer sitting between
// the HTTP transport and the pipeline. Services own orchestration concerns
// (upload handling, export fan-out, health reporting) and leave the domain
// logic to the pipeline and calculation packages.
package services
