// Package openapi describes the submit endpoint of a composed form as an
// OpenAPI 3 document. Integrators use it to see the property names, formats
// and allowed values a webhook receives for that form.
package openapi
