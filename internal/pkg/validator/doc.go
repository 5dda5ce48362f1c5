// Package validator provides a small validation abstraction for request
// structs.
//
// Business code depends on the Validator interface. The go-playground v10
// implementation adds two rules used by the auth endpoints: "mobile" (exactly
// ten ASCII digits) and "otp" (digits only, configured width).
package validator
