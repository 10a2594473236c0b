// Package kernel holds the primitives shared by every aggregate of the
// laundry domain. Today that is the UUID identifier; identifiers of users and
// orders are both kernel.UUID so that references between aggregates
// (order.customerID, order.driverID) stay type-safe without importing the
// other aggregate's package.
package kernel
