package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxOthers bounds the "Other models" list.
const maxOthers = 4

const otherRowHeight = 56

// Other is one entry of the "Other models" list.
type Other struct {
	ID        int
	Title     string
	Thumbnail rl.Texture2D
}

// Info is what the details panel shows for the viewer's current model.
// The caller fills it from the catalog and the viewer; ui does not depend on either.
type Info struct {
	Title       string
	Description string
	URL         string
	Meshes      int
	Triangles   int
	Loading     bool
	Err         string
	Others      []Other
}

// Details is the viewer side panel: title, description, model stats, load status and
// a short list of other catalog models with thumbnails.
type Details struct {
	panel   *Node
	title   *Node
	text    *Node
	meta    *Node
	status  *Node
	heading *Node
	thumbs  [maxOthers]*Node
	others  [maxOthers]*Node
}

// NewDetails creates the panel nodes, styled by the .details* classes.
func NewDetails() *Details {
	d := &Details{
		panel:   NewNode("panel", "details", "", ""),
		title:   NewNode("label", "details-title", "", ""),
		text:    NewNode("label", "details-text", "", ""),
		meta:    NewNode("label", "details-meta", "", ""),
		status:  NewNode("label", "details-status", "", ""),
		heading: NewNode("label", "details-heading", "", "Other models"),
	}
	for i := range d.others {
		d.thumbs[i] = NewNode("image", "details-thumb", "", "")
		d.others[i] = NewNode("label", "details-other", "", "")
		d.thumbs[i].DY = float32(i * otherRowHeight)
		d.others[i].DY = float32(i * otherRowHeight)
	}
	return d
}

// AppendNodes appends the panel's nodes to dst after updating their text from info.
// When visible is false dst is returned unchanged.
func (d *Details) AppendNodes(dst []*Node, visible bool, info Info) []*Node {
	if !visible {
		return dst
	}
	d.title.Text = info.Title
	d.text.Text = info.Description
	d.meta.Text = fmt.Sprintf("%s\n%d meshes, %d triangles", info.URL, info.Meshes, info.Triangles)
	switch {
	case info.Loading:
		d.status.Text = "Loading..."
	case info.Err != "":
		d.status.Text = "Failed: " + info.Err
	default:
		d.status.Text = ""
	}
	dst = append(dst, d.panel, d.title, d.text, d.meta, d.status)
	if len(info.Others) == 0 {
		return dst
	}
	dst = append(dst, d.heading)
	for i, o := range info.Others {
		if i == maxOthers {
			break
		}
		d.thumbs[i].Texture = o.Thumbnail
		d.others[i].Text = fmt.Sprintf("%d  %s", o.ID, o.Title)
		dst = append(dst, d.thumbs[i], d.others[i])
	}
	return dst
}
