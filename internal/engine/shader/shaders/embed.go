// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ModelVertexShader transforms model vertices and passes lighting inputs on.
//
//go:embed model.vert
var ModelVertexShader string

// ModelFragmentShader shades the model with ambient, diffuse and specular terms.
//
//go:embed model.frag
var ModelFragmentShader string

// LightVertexShader positions the light marker cube.
//
//go:embed light.vert
var LightVertexShader string

// LightFragmentShader paints the light marker.
//
//go:embed light.frag
var LightFragmentShader string
