package checks

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitecheck/sitecheck/internal/model"
)

// ImageAltCheck flags <img> elements without an alt attribute.
// Images hidden from assistive technology via aria-hidden (on the element
// or any ancestor) are exempt.
type ImageAltCheck struct{}

// NewImageAltCheck creates an ImageAltCheck.
func NewImageAltCheck() *ImageAltCheck {
	return &ImageAltCheck{}
}

// Name returns the check name.
func (c *ImageAltCheck) Name() string { return "image-alt" }

// Category returns the gating category.
func (c *ImageAltCheck) Category() Category { return CategoryAccessibility }

// Run flags each image missing alt text.
func (c *ImageAltCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 || ariaHidden(s.Nodes[0]) {
			return
		}
		if _, ok := s.Attr("alt"); !ok {
			src, _ := s.Attr("src")
			page.AddError(fmt.Sprintf("Accessibility: <img> missing alt attribute (src: %s)", src))
		}
	})
}

// SVGCheck validates inline <svg> semantics: a warning for missing
// role="img" and an error for a missing aria-label, both exempted by
// aria-hidden ancestry.
type SVGCheck struct{}

// NewSVGCheck creates an SVGCheck.
func NewSVGCheck() *SVGCheck {
	return &SVGCheck{}
}

// Name returns the check name.
func (c *SVGCheck) Name() string { return "svg-semantics" }

// Category returns the gating category.
func (c *SVGCheck) Category() Category { return CategoryAccessibility }

// Run validates each inline svg element.
func (c *SVGCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	doc.Find("svg").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 || ariaHidden(s.Nodes[0]) {
			return
		}
		if role, _ := s.Attr("role"); role != "img" {
			page.AddWarning(`Accessibility: <svg> missing role="img"`)
		}
		if _, ok := s.Attr("aria-label"); !ok {
			page.AddError("Accessibility: <svg> missing aria-label")
		}
	})
}

// AccessibleNameCheck flags interactive elements (anchors, buttons, and
// role="button" elements) that expose no accessible name: no aria-label
// and no text content anywhere in their subtree.
type AccessibleNameCheck struct{}

// NewAccessibleNameCheck creates an AccessibleNameCheck.
func NewAccessibleNameCheck() *AccessibleNameCheck {
	return &AccessibleNameCheck{}
}

// Name returns the check name.
func (c *AccessibleNameCheck) Name() string { return "accessible-name" }

// Category returns the gating category.
func (c *AccessibleNameCheck) Category() Category { return CategoryAccessibility }

// Run flags interactive elements without an accessible name.
func (c *AccessibleNameCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	doc.Find(`a, button, [role="button"]`).Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		if ariaHidden(node) {
			return
		}
		if label, ok := s.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			return
		}
		if hasAccessibleContent(node) {
			return
		}
		page.AddError(fmt.Sprintf("Accessibility: Interactive element <%s> has no accessible name", node.Data))
	})
}

// knownRoles is the ARIA role vocabulary accepted by the role check.
var knownRoles = map[string]bool{
	"alert": true, "alertdialog": true, "application": true, "article": true,
	"banner": true, "button": true, "cell": true, "checkbox": true,
	"columnheader": true, "combobox": true, "complementary": true,
	"contentinfo": true, "definition": true, "dialog": true, "directory": true,
	"document": true, "feed": true, "figure": true, "form": true, "grid": true,
	"gridcell": true, "group": true, "heading": true, "img": true, "link": true,
	"list": true, "listbox": true, "listitem": true, "log": true, "main": true,
	"marquee": true, "math": true, "menu": true, "menubar": true,
	"menuitem": true, "menuitemcheckbox": true, "menuitemradio": true,
	"navigation": true, "none": true, "note": true, "option": true,
	"presentation": true, "progressbar": true, "radio": true,
	"radiogroup": true, "region": true, "row": true, "rowgroup": true,
	"rowheader": true, "scrollbar": true, "search": true, "searchbox": true,
	"separator": true, "slider": true, "spinbutton": true, "status": true,
	"switch": true, "tab": true, "table": true, "tablist": true,
	"tabpanel": true, "term": true, "textbox": true, "timer": true,
	"toolbar": true, "tooltip": true, "tree": true, "treegrid": true,
	"treeitem": true,
}

// requiredRoleAttrs maps roles to the companion ARIA attributes they
// mandate on the same element.
var requiredRoleAttrs = map[string][]string{
	"checkbox":   {"aria-checked"},
	"radio":      {"aria-checked"},
	"switch":     {"aria-checked"},
	"combobox":   {"aria-expanded"},
	"heading":    {"aria-level"},
	"slider":     {"aria-valuenow"},
	"spinbutton": {"aria-valuenow"},
	"scrollbar":  {"aria-valuenow"},
	"option":     {"aria-selected"},
}

// AriaRoleCheck validates role attributes: the role must come from the
// known ARIA vocabulary, roles with mandated companion attributes must
// carry them, and clickable div/span elements should declare some role.
type AriaRoleCheck struct{}

// NewAriaRoleCheck creates an AriaRoleCheck.
func NewAriaRoleCheck() *AriaRoleCheck {
	return &AriaRoleCheck{}
}

// Name returns the check name.
func (c *AriaRoleCheck) Name() string { return "aria-role" }

// Category returns the gating category.
func (c *AriaRoleCheck) Category() Category { return CategoryAccessibility }

// Run validates every element with a role attribute.
func (c *AriaRoleCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	doc.Find("[role]").Each(func(_ int, s *goquery.Selection) {
		role, _ := s.Attr("role")
		role = strings.ToLower(strings.TrimSpace(role))

		if !knownRoles[role] {
			page.AddError(fmt.Sprintf("Accessibility: Unknown ARIA role %q", role))
			return
		}

		for _, attr := range requiredRoleAttrs[role] {
			if _, ok := s.Attr(attr); !ok {
				page.AddError(fmt.Sprintf("Accessibility: Role %q requires the %s attribute", role, attr))
			}
		}
	})

	doc.Find("div[onclick], span[onclick]").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("role"); ok || len(s.Nodes) == 0 {
			return
		}
		page.AddWarning(fmt.Sprintf("Accessibility: Clickable <%s> without a role attribute", s.Nodes[0].Data))
	})
}

// textLikeInputTypes are the input types that take free text and therefore
// need a label. Inputs without a type attribute default to text.
var textLikeInputTypes = map[string]bool{
	"": true, "text": true, "email": true, "password": true, "search": true,
	"tel": true, "url": true, "number": true, "date": true,
}

// FormLabelCheck verifies that text-like form controls are labeled by at
// least one of: aria-label, a resolvable aria-labelledby, an associated
// <label for>, or a wrapping <label>. It also flags <label for> attributes
// that reference nonexistent ids.
type FormLabelCheck struct{}

// NewFormLabelCheck creates a FormLabelCheck.
func NewFormLabelCheck() *FormLabelCheck {
	return &FormLabelCheck{}
}

// Name returns the check name.
func (c *FormLabelCheck) Name() string { return "form-label" }

// Category returns the gating category.
func (c *FormLabelCheck) Category() Category { return CategoryAccessibility }

// Run validates form control labeling.
func (c *FormLabelCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	// Collect every id on the page and every id referenced by a label.
	ids := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			ids[id] = true
		}
	})

	labelFor := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		target, _ := s.Attr("for")
		labelFor[target] = true
		if !ids[target] {
			page.AddError(fmt.Sprintf("Accessibility: <label for=%q> references a nonexistent id", target))
		}
	})

	doc.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		if node.Data == "input" {
			inputType, _ := s.Attr("type")
			if !textLikeInputTypes[strings.ToLower(inputType)] {
				return
			}
		}
		if ariaHidden(node) {
			return
		}

		if label, ok := s.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			return
		}
		if ref, ok := s.Attr("aria-labelledby"); ok && ids[ref] {
			return
		}
		if id, ok := s.Attr("id"); ok && labelFor[id] {
			return
		}
		if s.ParentsFiltered("label").Length() > 0 {
			return
		}

		name, _ := s.Attr("name")
		page.AddError(fmt.Sprintf("Accessibility: Form control <%s> has no associated label (name: %s)", node.Data, name))
	})
}
