package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh vertex shader: interleaved position + normal, world-space outputs.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// Mesh fragment shader: ambient + two directional lights + one point light
// with a Blinn-Phong highlight driven by roughness.
const meshFragSrc = `#version 410 core

uniform vec3 uColor;
uniform vec3 uEmissive;
uniform float uOpacity;
uniform float uRoughness;
uniform float uMetalness;
uniform int uUnlit;
uniform int uDoubleSided;

uniform vec3 uCameraPos;
uniform float uAmbient;
uniform vec3 uKeyDir;
uniform float uKeyIntensity;
uniform vec3 uRimDir;
uniform vec3 uRimColor;
uniform float uRimIntensity;
uniform vec3 uPointPos;
uniform vec3 uPointColor;
uniform float uPointIntensity;
uniform float uPointRange;

in vec3 vWorldPos;
in vec3 vNormal;
out vec4 FragColor;

void main() {
    if (uUnlit == 1) {
        FragColor = vec4(uColor + uEmissive, uOpacity);
        return;
    }
    vec3 n = normalize(vNormal);
    vec3 v = normalize(uCameraPos - vWorldPos);
    if (uDoubleSided == 1 && dot(n, v) < 0.0) {
        n = -n;
    }

    float shininess = mix(64.0, 4.0, clamp(uRoughness, 0.0, 1.0));
    float specK = mix(0.04, 0.5, clamp(uMetalness, 0.0, 1.0)) * (1.0 - uRoughness);

    vec3 light = vec3(uAmbient);
    float spec = 0.0;

    float key = max(dot(n, uKeyDir), 0.0);
    light += vec3(key * uKeyIntensity);
    spec += pow(max(dot(n, normalize(uKeyDir + v)), 0.0), shininess) * uKeyIntensity;

    float rim = max(dot(n, uRimDir), 0.0);
    light += uRimColor * rim * uRimIntensity;

    vec3 toPoint = uPointPos - vWorldPos;
    float dist = length(toPoint);
    float falloff = clamp(1.0 - dist / uPointRange, 0.0, 1.0);
    falloff *= falloff;
    float pt = max(dot(n, toPoint / max(dist, 1e-4)), 0.0) * falloff * uPointIntensity;
    light += uPointColor * pt;

    vec3 col = uColor * light + vec3(spec * specK) + uEmissive;
    FragColor = vec4(col, uOpacity);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
