// Package models defines the core domain models for the finance tracker.
//
// # Models
//
//   - User: registered or guest account; everything a user creates is scoped
//     to their ID
//   - Transaction: a single income or expense entry
//   - Trip: a group expense-sharing session with named participants and a
//     list of shared expenses
//   - Summary: daily or monthly income/expense aggregate used for
//     spreadsheet exports and emailed reports
//
// # Design Principles
//
//  1. **Typed records**: required/optional fields are explicit structs, not
//     loose maps; optional dates use the Date type whose zero value means
//     "unset"
//  2. **String participants**: trip participants are plain names, not user
//     accounts; only the trip owner has an account
//  3. **Avoid circular references**: relationships use ID strings, never
//     pointers between aggregates
package models
