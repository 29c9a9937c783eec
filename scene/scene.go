package scene

// Index returns the position of the layer with id in the z-order, or -1.
func (s Scene) Index(id string) int {
	if id == "" {
		return -1
	}
	for i, l := range s.Layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Layer returns the layer with id.
func (s Scene) Layer(id string) (TextLayer, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Layers[i], true
	}
	return TextLayer{}, false
}

// SelectedLayer returns the selected layer, if any.
func (s Scene) SelectedLayer() (TextLayer, bool) { return s.Layer(s.Selected) }

// Clone returns a deep copy of s.
func (s Scene) Clone() Scene {
	s.Layers = cloneLayers(s.Layers)
	return s
}

func cloneLayers(layers []TextLayer) []TextLayer {
	if layers == nil {
		return nil
	}
	out := make([]TextLayer, len(layers))
	for i, l := range layers {
		out[i] = l.clone()
	}
	return out
}

// AddLayer appends layer on top of the stack. A layer whose id is already present is
// ignored so ids stay unique.
func (s Scene) AddLayer(layer TextLayer) Scene {
	if layer.ID == "" || s.Index(layer.ID) >= 0 {
		return s
	}
	layers := make([]TextLayer, 0, len(s.Layers)+1)
	layers = append(layers, s.Layers...)
	s.Layers = append(layers, layer.clone())
	return s
}

// UpdateLayer merges patch into the layer with id. Unknown ids are a no-op.
func (s Scene) UpdateLayer(id string, patch LayerPatch) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	layers := make([]TextLayer, len(s.Layers))
	copy(layers, s.Layers)
	layers[i] = patch.Apply(layers[i])
	s.Layers = layers
	return s
}

// DeleteLayer removes the layer with id and clears the selection if it pointed at it.
func (s Scene) DeleteLayer(id string) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	layers := make([]TextLayer, 0, len(s.Layers)-1)
	layers = append(layers, s.Layers[:i]...)
	s.Layers = append(layers, s.Layers[i+1:]...)
	if s.Selected == id {
		s.Selected = ""
	}
	return s
}

// SelectLayer sets the selection without validating id; "" clears it.
func (s Scene) SelectLayer(id string) Scene {
	s.Selected = id
	return s
}

// SetBackgroundImage sets or clears ("") the background image reference.
func (s Scene) SetBackgroundImage(ref string) Scene {
	s.BackgroundImage = ref
	return s
}

// SetCanvasBackgroundColor sets the fill colour drawn under everything else.
func (s Scene) SetCanvasBackgroundColor(color string) Scene {
	s.Canvas.BackgroundColor = color
	return s
}

// ApplyTemplate replaces all layers with the template's and adopts its background
// colour. The selection is cleared when the selected layer no longer exists.
func (s Scene) ApplyTemplate(t Template) Scene {
	s.Layers = cloneLayers(t.Layers)
	if s.Layers == nil {
		s.Layers = []TextLayer{}
	}
	if t.BackgroundColor != "" {
		s.Canvas.BackgroundColor = t.BackgroundColor
	}
	if s.Index(s.Selected) < 0 {
		s.Selected = ""
	}
	return s
}

// ReplaceLayers swaps the whole layer stack, clearing a dangling selection.
func (s Scene) ReplaceLayers(layers []TextLayer) Scene {
	s.Layers = cloneLayers(layers)
	if s.Index(s.Selected) < 0 {
		s.Selected = ""
	}
	return s
}
