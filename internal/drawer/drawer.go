package drawer

// View is what the page needs to reflect drawer state, including the ARIA attributes.
type View struct {
	Open               bool   `json:"open"`
	DrawerAriaHidden   string `json:"drawer_aria_hidden"`
	BackdropAriaHidden string `json:"backdrop_aria_hidden"`
	BodyScrollLocked   bool   `json:"body_scroll_locked"`
}

// Drawer is the open/closed cart panel. The zero value is closed.
type Drawer struct {
	open bool
}

// Toggle sets the drawer to *force when given, otherwise inverts it. Returns the new state.
func (d *Drawer) Toggle(force *bool) bool {
	if force != nil {
		d.open = *force
	} else {
		d.open = !d.open
	}
	return d.open
}

func (d *Drawer) Open() {
	d.open = true
}

func (d *Drawer) Close() {
	d.open = false
}

// Escape closes an open drawer and reports whether anything changed.
func (d *Drawer) Escape() bool {
	if !d.open {
		return false
	}
	d.open = false
	return true
}

func (d *Drawer) IsOpen() bool {
	return d.open
}

func (d *Drawer) View() View {
	hidden := "true"
	if d.open {
		hidden = "false"
	}
	return View{
		Open:               d.open,
		DrawerAriaHidden:   hidden,
		BackdropAriaHidden: hidden,
		BodyScrollLocked:   d.open,
	}
}
