// Package render prints reader documents to PDF.
//
// A caller-supplied HTML fragment is embedded in a fixed document shell whose
// CSS is driven by a [Style], then printed by headless Chrome through the
// Chrome DevTools Protocol:
//
//	conv := render.NewConverter(render.WithNoSandbox())
//	defer conv.Close()
//
//	r := render.NewRenderer(conv)
//	res, err := r.Render(ctx, "<p><strong>Bi</strong>onic</p>", render.DefaultStyle())
//
// The [Converter] reuses one browser process across conversions and opens a
// tab per conversion. Chrome or Chromium must be available in PATH, be named
// with [WithChromePath], or be fetched on start with [WithAutoDownload].
//
// Use [PageConfig] to control paper size, orientation, margins, and scale.
// The defaults (A4, portrait, 2 cm margins) match the shell's @page rule.
package render
