// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, repositories
// (defined in internal/store) and the list cache to fulfill application
// features.
//
// Services receive their dependencies through constructor injection and never
// depend on specific infrastructure implementations, only on the store and
// cache interfaces.
package service
