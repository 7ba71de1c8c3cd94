package dodesc

import "github.com/go-gl/mathgl/mgl32"

// Read-only projection of the last accepted snapshot. Until the first
// accepted UpdateState (and again after Reset) every accessor returns its
// default: -1 for identifiers, zero for numbers and flags, the unset or
// unknown variant for enumerations.

// Flags returns the dynamic flags bitmask.
func (d *Descriptor) Flags() DynamicFlags {
	return DynamicFlags(d.dynamic.Flags)
}

// TexturePlanes returns the opaque native texture handles, one per colour
// plane. Unused planes are zero.
func (d *Descriptor) TexturePlanes() [3]uintptr {
	return [3]uintptr{d.dynamic.TexPlane0, d.dynamic.TexPlane1, d.dynamic.TexPlane2}
}

func (d *Descriptor) TextureType() TextureType {
	return TextureType(d.dynamic.TextureType)
}

func (d *Descriptor) HasRightEye() bool {
	return d.dynamic.HasRightEye != 0
}

func (d *Descriptor) IsActive() bool {
	return d.dynamic.IsActive != 0
}

func (d *Descriptor) IsStereoscopicModeActive() bool {
	return d.dynamic.IsStereoscopicModeActive != 0
}

func (d *Descriptor) VertexCount() int32 {
	return d.static.VertexCount
}

func (d *Descriptor) IndexCount() int32 {
	return d.static.IndexCount
}

// FrameSize returns the decoded frame dimensions in pixels.
func (d *Descriptor) FrameSize() (width, height int32) {
	return d.static.FrameWidth, d.static.FrameHeight
}

// MeshSignature identifies the current mesh shape; a change means the mesh
// must be rebuilt.
func (d *Descriptor) MeshSignature() int32 {
	return d.static.MeshSignature
}

func (d *Descriptor) DisplayObjectID() int32 {
	return d.static.DisplayObjectID
}

func (d *Descriptor) FeedIndex() int32 {
	return d.static.FeedIndex
}

// Bounds returns the 3D extent of the mesh.
func (d *Descriptor) Bounds() mgl32.Vec3 {
	return mgl32.Vec3{d.static.BoundsX, d.static.BoundsY, d.static.BoundsZ}
}

func (d *Descriptor) MeshType() MeshType {
	return MeshType(d.static.MeshType)
}

func (d *Descriptor) FishEyeType() FishEyeType {
	return FishEyeType(d.static.FishEyeType)
}

func (d *Descriptor) FishEyeStereoType() FishEyeStereoType {
	return FishEyeStereoType(d.static.FishEyeStereoType)
}

func (d *Descriptor) CircularRadiusInRad() float32 {
	return d.static.CircularRadiusInRad
}

func (d *Descriptor) SensorDensity() float32 {
	return d.static.SensorDensity
}

func (d *Descriptor) FocalLength() float32 {
	return d.static.FocalLength
}

// ReferenceResolution is the sensor resolution the lens parameters were
// calibrated at.
func (d *Descriptor) ReferenceResolution() (width, height int32) {
	return d.static.ReferenceWidth, d.static.ReferenceHeight
}

// Center returns the optical centre in texture coordinates.
func (d *Descriptor) Center() mgl32.Vec2 {
	return mgl32.Vec2{d.static.CenterU, d.static.CenterV}
}

// Affine returns the C, D and E coefficients, in that order, of the
// sensor-to-image affine transform.
func (d *Descriptor) Affine() (float32, float32, float32) {
	return d.static.AffineC, d.static.AffineD, d.static.AffineE
}

// DistortionPolynomial returns the lens distortion coefficients.
func (d *Descriptor) DistortionPolynomial() [16]float32 {
	return d.static.DistortionPolynomial
}

func (d *Descriptor) ColorSpace() ColorSpace {
	return ColorSpace(d.static.ColorSpace)
}

// TextureTransform returns the texture coordinate transform. The wire
// carries it column-major; it is returned transposed, as the renderer
// expects.
func (d *Descriptor) TextureTransform() mgl32.Mat4 {
	return mgl32.Mat4(d.static.TextureTransform).Transpose()
}

func (d *Descriptor) ProjectionType() ProjectionType {
	return ProjectionType(d.static.ProjectionType)
}

func (d *Descriptor) DisplayObjectClass() DisplayObjectClass {
	return DisplayObjectClass(d.static.DisplayObjectClass)
}

func (d *Descriptor) VideoStereoMode() VideoStereoMode {
	return VideoStereoMode(d.static.VideoStereoMode)
}

// RenderTimestamp is the producer's render clock for the last frame, in
// the producer's time base. Advisory only.
func (d *Descriptor) RenderTimestamp() int64 {
	return d.debug.RenderTimestamp
}

func (d *Descriptor) VsyncCounter() uint32 {
	return d.debug.VsyncCounter
}
