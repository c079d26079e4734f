package renderer

const sceneVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aAttr;

uniform mat4 uViewProj;
uniform float uPointSize;

out vec3 vAttr;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	gl_PointSize = uPointSize;
	vAttr = aAttr;
}
`

// uShade selects how aAttr is used: 1 shades it as a normal, 0 uses it as
// a color.
const sceneFragmentShader = `
#version 410 core

in vec3 vAttr;
out vec4 FragColor;

uniform int uShade;
uniform vec3 uLightDir;
uniform vec4 uColor;

void main() {
	if (uShade == 1) {
		float d = abs(dot(normalize(vAttr), uLightDir));
		FragColor = vec4(uColor.rgb * (0.25 + 0.75 * d), uColor.a);
	} else {
		FragColor = vec4(vAttr, uColor.a);
	}
}
`

const imageVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;

uniform vec2 uScale;

out vec2 vUV;

void main() {
	gl_Position = vec4(aPos * uScale, 0.0, 1.0);
	vUV = vec2(aPos.x * 0.5 + 0.5, 0.5 - aPos.y * 0.5);
}
`

const imageFragmentShader = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uImage;
uniform float uOpacity;

void main() {
	FragColor = vec4(texture(uImage, vUV).rgb, uOpacity);
}
`
