// Package model defines the field definitions administrators configure for a
// company form context. A Field is a tagged union keyed by FieldType: the
// type-specific attributes live in a FieldConfig variant and accessors such as
// Field.Slider return the zero variant when the attribute set does not belong
// to the field's type. Record is the flat shape used at the persistence and API
// boundaries; FieldFromRecord and RecordFromField convert between the two and
// drop attributes that are irrelevant to the declared type.
package model
