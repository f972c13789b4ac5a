package models

// Validate checks the group's fields.
func (g *Group) Validate() error {
	return validateStruct(g)
}
