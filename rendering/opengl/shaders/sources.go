package shaders

// The solver's passes all draw one fullscreen triangle generated from
// gl_VertexID, so no vertex buffer is needed. The vertex stage also
// precomputes the four neighbor coordinates used by the stencil operators;
// texelSize is 1/resolution per axis.
const BaseVertex = `
#version 330 core

const vec2 positions[3] = vec2[](
    vec2(-1.0, -1.0),
    vec2( 3.0, -1.0),
    vec2(-1.0,  3.0)
);

uniform vec2 texelSize;

out vec2 vUv;
out vec2 vL;
out vec2 vR;
out vec2 vT;
out vec2 vB;

void main() {
    vec2 pos = positions[gl_VertexID];
    vUv = pos * 0.5 + 0.5;
    vL = vUv - vec2(texelSize.x, 0.0);
    vR = vUv + vec2(texelSize.x, 0.0);
    vT = vUv + vec2(0.0, texelSize.y);
    vB = vUv - vec2(0.0, texelSize.y);
    gl_Position = vec4(pos, 0.0, 1.0);
}
`

// AdvectionFragment does the semi-Lagrangian backtrace: step backwards
// along the local velocity, sample the source field there, damp it.
const AdvectionFragment = `
#version 330 core

in vec2 vUv;
out vec4 fragColor;

uniform sampler2D uVelocity;
uniform sampler2D uSource;
uniform vec2 texelSize;
uniform float uDt;
uniform float uDissipation;

void main() {
    vec2 coord = vUv - uDt * texture(uVelocity, vUv).xy * texelSize;
    fragColor = uDissipation * texture(uSource, coord);
    fragColor.a = 1.0;
}
`

// DivergenceFragment takes the central difference of neighboring velocity
// components. At the grid boundary the missing neighbor is replaced by the
// negated boundary-normal component: fluid neither enters nor leaves.
const DivergenceFragment = `
#version 330 core

in vec2 vUv;
in vec2 vL;
in vec2 vR;
in vec2 vT;
in vec2 vB;
out vec4 fragColor;

uniform sampler2D uVelocity;

void main() {
    float L = texture(uVelocity, vL).x;
    float R = texture(uVelocity, vR).x;
    float T = texture(uVelocity, vT).y;
    float B = texture(uVelocity, vB).y;

    vec2 C = texture(uVelocity, vUv).xy;
    if (vL.x < 0.0) { L = -C.x; }
    if (vR.x > 1.0) { R = -C.x; }
    if (vT.y > 1.0) { T = -C.y; }
    if (vB.y < 0.0) { B = -C.y; }

    float div = 0.5 * (R - L + T - B);
    fragColor = vec4(div, 0.0, 0.0, 1.0);
}
`

// CurlFragment computes the scalar vorticity as the cross-derivative of
// the velocity components.
const CurlFragment = `
#version 330 core

in vec2 vUv;
in vec2 vL;
in vec2 vR;
in vec2 vT;
in vec2 vB;
out vec4 fragColor;

uniform sampler2D uVelocity;

void main() {
    float L = texture(uVelocity, vL).y;
    float R = texture(uVelocity, vR).y;
    float T = texture(uVelocity, vT).x;
    float B = texture(uVelocity, vB).x;
    float vorticity = 0.5 * (R - L - T + B);
    fragColor = vec4(vorticity, 0.0, 0.0, 1.0);
}
`

// VorticityFragment pushes velocity along the normalized gradient of the
// curl magnitude, signed by the local curl, which restores the fine
// swirling motion the grid solver dissipates. The result is clamped to
// keep an aggressive curl setting from blowing the field up.
const VorticityFragment = `
#version 330 core

in vec2 vUv;
in vec2 vL;
in vec2 vR;
in vec2 vT;
in vec2 vB;
out vec4 fragColor;

uniform sampler2D uVelocity;
uniform sampler2D uCurl;
uniform float uCurlStrength;
uniform float uDt;

void main() {
    float L = texture(uCurl, vL).x;
    float R = texture(uCurl, vR).x;
    float T = texture(uCurl, vT).x;
    float B = texture(uCurl, vB).x;
    float C = texture(uCurl, vUv).x;

    vec2 force = 0.5 * vec2(abs(T) - abs(B), abs(R) - abs(L));
    force /= length(force) + 0.0001;
    force *= uCurlStrength * C;
    force.y *= -1.0;

    vec2 velocity = texture(uVelocity, vUv).xy;
    velocity += force * uDt;
    velocity = clamp(velocity, vec2(-1000.0), vec2(1000.0));
    fragColor = vec4(velocity, 0.0, 1.0);
}
`

// PressureFragment is one Jacobi relaxation step of the pressure Poisson
// equation. uOldScale damps the pressure carried over from the previous
// tick and is 1.0 for every iteration after the first.
const PressureFragment = `
#version 330 core

in vec2 vUv;
in vec2 vL;
in vec2 vR;
in vec2 vT;
in vec2 vB;
out vec4 fragColor;

uniform sampler2D uPressure;
uniform sampler2D uDivergence;
uniform float uOldScale;

void main() {
    float L = texture(uPressure, vL).x * uOldScale;
    float R = texture(uPressure, vR).x * uOldScale;
    float T = texture(uPressure, vT).x * uOldScale;
    float B = texture(uPressure, vB).x * uOldScale;
    float divergence = texture(uDivergence, vUv).x;
    float pressure = (L + R + B + T - divergence) * 0.25;
    fragColor = vec4(pressure, 0.0, 0.0, 1.0);
}
`

// ProjectionFragment subtracts the discrete pressure gradient from the
// velocity field, leaving it approximately divergence free.
const ProjectionFragment = `
#version 330 core

in vec2 vUv;
in vec2 vL;
in vec2 vR;
in vec2 vT;
in vec2 vB;
out vec4 fragColor;

uniform sampler2D uPressure;
uniform sampler2D uVelocity;

void main() {
    float L = texture(uPressure, vL).x;
    float R = texture(uPressure, vR).x;
    float T = texture(uPressure, vT).x;
    float B = texture(uPressure, vB).x;
    vec2 velocity = texture(uVelocity, vUv).xy;
    velocity -= 0.5 * vec2(R - L, T - B);
    fragColor = vec4(velocity, 0.0, 1.0);
}
`

// SplatFragment adds a radially decaying contribution around uPoint onto
// the target field: pointer force into velocity, color into dye.
const SplatFragment = `
#version 330 core

in vec2 vUv;
out vec4 fragColor;

uniform sampler2D uTarget;
uniform float uAspect;
uniform vec3 uColor;
uniform vec2 uPoint;
uniform float uRadius;

void main() {
    vec2 p = vUv - uPoint;
    p.x *= uAspect;
    vec3 splat = exp(-dot(p, p) / uRadius) * uColor;
    vec3 base = texture(uTarget, vUv).xyz;
    fragColor = vec4(base + splat, 1.0);
}
`

// DisplayFragment maps the dye field to the visible surface with a
// brightness/contrast adjustment, clamped to display range.
const DisplayFragment = `
#version 330 core

in vec2 vUv;
out vec4 fragColor;

uniform sampler2D uTexture;
uniform float uBrightness;
uniform float uContrast;

void main() {
    vec3 c = texture(uTexture, vUv).rgb;
    c = (c - 0.5) * uContrast + 0.5;
    c *= uBrightness;
    fragColor = vec4(clamp(c, 0.0, 1.0), 1.0);
}
`
