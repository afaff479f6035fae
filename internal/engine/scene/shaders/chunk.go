// Package shaders holds GLSL sources for the scene renderers.
package shaders

// ChunkVertexShader transforms chunk-local vertices by the chunk's model matrix.
const ChunkVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uViewProj * world;
}
`

// ChunkFragmentShader shades with the colour tile when bound, otherwise with
// a height ramp. Distance fog blends towards uFogColor.
const ChunkFragmentShader = `#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;

uniform sampler2D uColor;
uniform int uUseColor;
uniform float uHeightScale;
uniform vec3 uLightDir;
uniform vec3 uCameraPos;
uniform float uFogFar;
uniform vec3 uFogColor;
uniform vec3 uTint;

out vec4 FragColor;

vec3 heightRamp(float t) {
    vec3 low = vec3(0.20, 0.36, 0.16);
    vec3 mid = vec3(0.45, 0.40, 0.30);
    vec3 high = vec3(0.92, 0.92, 0.95);
    if (t < 0.5) {
        return mix(low, mid, t * 2.0);
    }
    return mix(mid, high, (t - 0.5) * 2.0);
}

void main() {
    vec3 base;
    if (uUseColor == 1) {
        base = texture(uColor, vTexCoord).rgb;
    } else {
        float t = uHeightScale > 0.0 ? clamp(vWorldPos.y / uHeightScale, 0.0, 1.0) : 0.0;
        base = heightRamp(t);
    }

    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, -normalize(uLightDir)), 0.0);
    vec3 lit = base * uTint * (0.35 + 0.65 * diffuse);

    float fog = clamp(distance(vWorldPos, uCameraPos) / uFogFar, 0.0, 1.0);
    FragColor = vec4(mix(lit, uFogColor, fog * fog), 1.0);
}
`
