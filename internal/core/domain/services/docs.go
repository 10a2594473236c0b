// Package services provides domain services for rules that span more than
// one aggregate of the laundry backend.
//
// The package includes:
//   - DriverDispatcher: assigns a driver (a User) to an Order, enforcing that
//     the assignee actually holds the driver role
package services
