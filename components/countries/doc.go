// Package countries serves the phone regions offered by the phone field's
// country picker as searchable JSON options.
//
// The handler answers GET and HEAD with {"data":[...]}, filtering by name,
// ISO code or dial code. Brazil leads an empty search.
package countries
