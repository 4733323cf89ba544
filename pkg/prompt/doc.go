// Package prompt fills forms from the terminal. A Filler resolves the form's
// fields and asks for each one through a Driver; the survey backed driver is
// the default and tests script a stub.
package prompt
