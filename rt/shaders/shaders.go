// Package shaders embeds the WGSL used by the presentation layer. The tracer
// itself runs on the CPU; the GPU only blits the finished framebuffer.
package shaders

import _ "embed"

//go:embed fullscreen.wgsl
var FullscreenWGSL string
