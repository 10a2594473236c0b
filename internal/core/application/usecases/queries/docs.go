// Package queries contains the read use cases of the laundry backend.
// Query handlers read straight from the database through gorm and return
// flat views; they never load aggregates and never write.
package queries
