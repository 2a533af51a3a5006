package gralloc

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is an Android HAL pixel format code.
type Format int32

const (
	FormatRGBA8888 Format = 1
	FormatRGBX8888 Format = 2
	FormatRGB888   Format = 3
	FormatRGB565   Format = 4
	FormatBGRA8888 Format = 5
	FormatYV12     Format = 0x32315659
	FormatNV21     Format = 0x11
	// FormatImplementationDefined lets the allocator pick a layout from usage.
	FormatImplementationDefined Format = 0x22
)

var formatNames = map[Format]string{
	FormatRGBA8888:              "RGBA_8888",
	FormatRGBX8888:              "RGBX_8888",
	FormatRGB888:                "RGB_888",
	FormatRGB565:                "RGB_565",
	FormatBGRA8888:              "BGRA_8888",
	FormatYV12:                  "YV12",
	FormatNV21:                  "YCrCb_420_SP",
	FormatImplementationDefined: "IMPLEMENTATION_DEFINED",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%#x)", int32(f))
}

// ParseFormat accepts a format name as printed by String or a number.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown pixel format %q", s)
	}
	return Format(v), nil
}

// Usage is a set of GRALLOC_USAGE_* flags.
type Usage int32

const (
	UsageSWReadRarely  Usage = 0x00000002
	UsageSWReadOften   Usage = 0x00000003
	UsageSWWriteRarely Usage = 0x00000020
	UsageSWWriteOften  Usage = 0x00000030
	UsageHWTexture     Usage = 0x00000100
	UsageHWRender      Usage = 0x00000200
	UsageHW2D          Usage = 0x00000400
	UsageHWComposer    Usage = 0x00000800
	UsageHWFB          Usage = 0x00001000
	UsageExternalDisp  Usage = 0x00002000
	UsageProtected     Usage = 0x00004000
	UsageHWVideoEnc    Usage = 0x00010000
)

const (
	usageSWReadMask  Usage = 0x0000000F
	usageSWWriteMask Usage = 0x000000F0
)

var usageNames = []struct {
	bit  Usage
	name string
}{
	{UsageHWTexture, "HW_TEXTURE"},
	{UsageHWRender, "HW_RENDER"},
	{UsageHW2D, "HW_2D"},
	{UsageHWComposer, "HW_COMPOSER"},
	{UsageHWFB, "HW_FB"},
	{UsageExternalDisp, "EXTERNAL_DISP"},
	{UsageProtected, "PROTECTED"},
	{UsageHWVideoEnc, "HW_VIDEO_ENCODER"},
}

func (u Usage) String() string {
	if u == 0 {
		return "0"
	}
	var parts []string
	switch u & usageSWReadMask {
	case 0:
	case UsageSWReadRarely:
		parts = append(parts, "SW_READ_RARELY")
	case UsageSWReadOften:
		parts = append(parts, "SW_READ_OFTEN")
	default:
		parts = append(parts, fmt.Sprintf("SW_READ(%#x)", int32(u&usageSWReadMask)))
	}
	switch u & usageSWWriteMask {
	case 0:
	case UsageSWWriteRarely:
		parts = append(parts, "SW_WRITE_RARELY")
	case UsageSWWriteOften:
		parts = append(parts, "SW_WRITE_OFTEN")
	default:
		parts = append(parts, fmt.Sprintf("SW_WRITE(%#x)", int32(u&usageSWWriteMask)))
	}
	rest := u &^ (usageSWReadMask | usageSWWriteMask)
	for _, n := range usageNames {
		if rest&n.bit != 0 {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", int32(rest)))
	}
	return strings.Join(parts, "|")
}
