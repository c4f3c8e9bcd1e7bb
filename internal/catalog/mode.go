package catalog

import "mapache/internal/models"

// Toggle switches to target, or back to viewing when target is already active.
// Editing and deleting are never both on.
func Toggle(current, target models.Mode) models.Mode {
	if current == target {
		return models.ModeViewing
	}
	return target
}

func (c *Catalog) ToggleEdit(s *models.Session) models.Mode {
	s.Catalog.Mode = Toggle(s.Catalog.Mode, models.ModeEditing)
	s.Catalog.SelectedID = 0
	return s.Catalog.Mode
}

func (c *Catalog) ToggleDelete(s *models.Session) models.Mode {
	s.Catalog.Mode = Toggle(s.Catalog.Mode, models.ModeDeleting)
	s.Catalog.SelectedID = 0
	return s.Catalog.Mode
}
