// Package forms is the dynamic form engine. A Schema of field Descriptors
// (JSON or YAML, with "true"/"false" strings tolerated for the boolean
// flags) is normalized into strictly typed Fields, from which a Form builds
// one control per visible field, validates values, and produces the
// submitted value map.
//
// Typical use:
//
//	schema, err := forms.NewLoader(forms.LoaderOptions{}).Load(ctx, "client-form.json")
//	if err != nil {
//	    return err
//	}
//	form, err := forms.New(schema)
//	if err != nil {
//	    return err // forms.ErrNoFields, schema errors
//	}
//	_ = form.SetValues(input)
//	data, err := form.Submit()
package forms
