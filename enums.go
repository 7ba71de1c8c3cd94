package dodesc

// Enumerations carried as int32 on the wire. The zero value of each is its
// unset variant, which is also what an uninitialized Descriptor reports.

//go:generate go tool stringer -type=MeshType -trimprefix=MeshType
type MeshType int32

const (
	MeshTypeUnknown MeshType = iota
	MeshTypePlanar
	MeshTypeCubemap
	MeshTypeCubemap180
	MeshTypeEquirectangular
	MeshTypeEquirectangular180
	MeshTypeFishEye
)

//go:generate go tool stringer -type=FishEyeType -trimprefix=FishEyeType
type FishEyeType int32

const (
	FishEyeTypeUnset FishEyeType = iota
	FishEyeTypeEquisolid
	FishEyeTypeEquidistant
	FishEyeTypeStereographic
	FishEyeTypeOrthographic
	FishEyeTypePolynomial
)

//go:generate go tool stringer -type=FishEyeStereoType -trimprefix=FishEyeStereoType
type FishEyeStereoType int32

const (
	FishEyeStereoTypeUnset FishEyeStereoType = iota
	FishEyeStereoTypeMono
	FishEyeStereoTypeSideBySide
	FishEyeStereoTypeTopBottom
)

//go:generate go tool stringer -type=ColorSpace -trimprefix=ColorSpace
type ColorSpace int32

const (
	ColorSpaceUnset ColorSpace = iota
	ColorSpaceBT601
	ColorSpaceBT709
	ColorSpaceBT2020
)

//go:generate go tool stringer -type=ProjectionType -trimprefix=ProjectionType
type ProjectionType int32

const (
	ProjectionTypeUnset ProjectionType = iota
	ProjectionTypePlanar
	ProjectionTypeEquirectangular
	ProjectionTypeCubemap
	ProjectionTypeFishEye
)

//go:generate go tool stringer -type=DisplayObjectClass -trimprefix=DisplayObjectClass
type DisplayObjectClass int32

const (
	DisplayObjectClassUnset DisplayObjectClass = iota
	DisplayObjectClassMain
	DisplayObjectClassOverlay
	DisplayObjectClassThumbnail
)

//go:generate go tool stringer -type=VideoStereoMode -trimprefix=VideoStereoMode
type VideoStereoMode int32

const (
	VideoStereoModeUnset VideoStereoMode = iota
	VideoStereoModeMono
	VideoStereoModeSideBySide
	VideoStereoModeTopBottom
)

// TextureType describes how the colour planes of a frame are laid out.
//
//go:generate go tool stringer -type=TextureType -trimprefix=TextureType
type TextureType int32

const (
	TextureTypeUnset  TextureType = iota
	TextureTypeRGBA               // one plane
	TextureTypeYUV420             // three planes
	TextureTypeNV12               // two planes
	TextureTypeOES                // one external plane
)

// TextureMode is requested at registration time.
//
//go:generate go tool stringer -type=TextureMode -trimprefix=TextureMode
type TextureMode int32

const (
	TextureModeUnset  TextureMode = iota
	TextureModeNative             // producer hands out its own texture handles
	TextureModeCopy               // producer copies into consumer-visible textures
)

// DynamicFlags is the bitmask in the dynamic structure.
type DynamicFlags uint32

const FlagNone DynamicFlags = 0

const (
	FlagTexturesUpdated  DynamicFlags = 1 << iota // New texture handles this frame
	FlagFrameDropped                              // Producer skipped at least one frame
	FlagEndOfStream                               // Last frame of the current feed
	FlagRenderTargetLost                          // Native texture storage was recreated
)

// Has reports whether all bits of f are set.
func (d DynamicFlags) Has(f DynamicFlags) bool {
	return d&f == f
}
