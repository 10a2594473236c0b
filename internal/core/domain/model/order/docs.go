// Package order provides the Order aggregate of the laundry backend and its
// lifecycle state machine.
//
// The package includes:
//   - Order: aggregate root owning status, driver assignment, frozen rates,
//     price breakdown and payment state
//   - Status: scheduled -> picked_up -> in_cleaning -> ready_for_delivery -> delivered
//   - Pickup: the booking details (address, laundry type, day, instructions)
//   - Timeline: reached-flags derived from a status, exposed in order views
//
// Key business rules:
//   - Leaving Scheduled happens only through AssignDriver, which forces PickedUp
//   - Only the assigned driver may advance the status, one step at a time
//   - A paid order is never repriced
package order
