package generator

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/scene"
)

// Materialize turns a RenderSpec into editable text layers, one per wrapped line, laid
// out exactly as the renderer lays out the spec's title. Each layer gets its own deep
// copy of the spec's text style and an id of the form "<spec id>-line-<n>".
func Materialize(spec scene.RenderSpec, m layout.Metrics) ([]scene.TextLayer, error) {
	placement, err := layout.PlaceText(m, spec.Title, spec.TextStyle.Font(), layout.PlaceOptions{
		CanvasWidth:  scene.DefaultWidth,
		CanvasHeight: scene.DefaultHeight,
		Position:     spec.Layout.TextPosition,
		Align:        spec.Layout.TextAlign,
	})
	if err != nil {
		return nil, fmt.Errorf("排版 %s 失败: %w", spec.ID, err)
	}

	layers := make([]scene.TextLayer, 0, len(placement.Lines))
	for i, line := range placement.Lines {
		var style scene.Style
		if err := copier.CopyWithOption(&style, &spec.TextStyle, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("复制样式失败: %w", err)
		}
		layers = append(layers, scene.TextLayer{
			ID:       fmt.Sprintf("%s-line-%d", spec.ID, i+1),
			Content:  line.Content,
			Position: scene.Point{X: line.X, Y: line.Baseline - placement.Ascent},
			Style:    style,
		})
	}
	return layers, nil
}
