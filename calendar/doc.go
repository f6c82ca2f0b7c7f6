// Package calendar converts between a linear "world time" value (a signed
// count of seconds since an arbitrary zero point) and structured dates for
// user-defined calendar systems.
//
// A calendar is described by a Definition: its own clock granularity, an
// ordered month list, an ordered weekday list, a leap-year rule, and
// intercalary days inserted outside the normal month grid. Nothing in this
// package assumes Earth's 365-day year, 12-month year, 7-day week, or
// 24-hour day.
//
// Calculus is the conversion engine. It is a pure computation over an
// immutable Definition snapshot and is safe for concurrent use; see
// NewCalculus.
package calendar
