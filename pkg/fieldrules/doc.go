// Package fieldrules holds the per-type behaviour shared by the interactive
// controls and the static export: option parsing, money formatting, slider
// bounds, selection limits and the presentation projection of a field.
package fieldrules
