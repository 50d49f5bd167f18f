// Package validation holds the pure validators and formatters shared by the
// interactive controls, the static export and the submission handler:
// Brazilian tax ids (CPF/CNPJ), phone masks per country, URLs, names and
// postal codes. Every function is total over its input and never panics.
package validation
