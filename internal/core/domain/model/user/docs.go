// Package user models the identity side of the laundry backend: the User
// aggregate, its Role, the Email value object, the password policy and the
// closed set of token scopes.
//
// Users are created unverified and active by registration, become verified
// through the email-verification flow, and keep the role they were created
// with for their whole life. Authorization is an exact role match: an admin
// is not implicitly a driver.
package user
