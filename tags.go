// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import "fmt"

// UnknownPrefix is used as prefix for unknown tags.
const UnknownPrefix = "UnknownTag_"

// Baseline and extended TIFF tags of IFD0 (TIFF 6.0, p. 28-41 and 117-118).
const (
	TagNewSubfileType            uint16 = 0x00fe
	TagImageWidth                uint16 = 0x0100
	TagImageLength               uint16 = 0x0101
	TagBitsPerSample             uint16 = 0x0102
	TagCompression               uint16 = 0x0103
	TagPhotometricInterpretation uint16 = 0x0106
	TagImageDescription          uint16 = 0x010e
	TagMake                      uint16 = 0x010f
	TagModel                     uint16 = 0x0110
	TagStripOffsets              uint16 = 0x0111
	TagOrientation               uint16 = 0x0112
	TagSamplesPerPixel           uint16 = 0x0115
	TagRowsPerStrip              uint16 = 0x0116
	TagStripByteCounts           uint16 = 0x0117
	TagXResolution               uint16 = 0x011a
	TagYResolution               uint16 = 0x011b
	TagPlanarConfiguration       uint16 = 0x011c
	TagResolutionUnit            uint16 = 0x0128
	TagSoftware                  uint16 = 0x0131
	TagDateTime                  uint16 = 0x0132
	TagArtist                    uint16 = 0x013b
	TagHostComputer              uint16 = 0x013c
	TagPredictor                 uint16 = 0x013d
	TagTileWidth                 uint16 = 0x0142
	TagTileLength                uint16 = 0x0143
	TagTileOffsets               uint16 = 0x0144
	TagTileByteCounts            uint16 = 0x0145
	TagExtraSamples              uint16 = 0x0152
	TagSampleFormat              uint16 = 0x0153
	TagXMP                       uint16 = 0x02bc
	TagCopyright                 uint16 = 0x8298
	TagExifIFDPointer            uint16 = 0x8769
	TagICCProfile                uint16 = 0x8773
	TagGPSInfoIFDPointer         uint16 = 0x8825
)

var tagNames = map[uint16]string{
	TagNewSubfileType:            "NewSubfileType",
	TagImageWidth:                "ImageWidth",
	TagImageLength:               "ImageLength",
	TagBitsPerSample:             "BitsPerSample",
	TagCompression:               "Compression",
	TagPhotometricInterpretation: "PhotometricInterpretation",
	TagImageDescription:          "ImageDescription",
	TagMake:                      "Make",
	TagModel:                     "Model",
	TagStripOffsets:              "StripOffsets",
	TagOrientation:               "Orientation",
	TagSamplesPerPixel:           "SamplesPerPixel",
	TagRowsPerStrip:              "RowsPerStrip",
	TagStripByteCounts:           "StripByteCounts",
	TagXResolution:               "XResolution",
	TagYResolution:               "YResolution",
	TagPlanarConfiguration:       "PlanarConfiguration",
	TagResolutionUnit:            "ResolutionUnit",
	TagSoftware:                  "Software",
	TagDateTime:                  "DateTime",
	TagArtist:                    "Artist",
	TagHostComputer:              "HostComputer",
	TagPredictor:                 "Predictor",
	TagTileWidth:                 "TileWidth",
	TagTileLength:                "TileLength",
	TagTileOffsets:               "TileOffsets",
	TagTileByteCounts:            "TileByteCounts",
	TagExtraSamples:              "ExtraSamples",
	TagSampleFormat:              "SampleFormat",
	TagXMP:                       "ApplicationNotes",
	TagCopyright:                 "Copyright",
	TagExifIFDPointer:            "ExifOffset",
	TagICCProfile:                "ICC_Profile",
	TagGPSInfoIFDPointer:         "GPSInfo",
}

// TagName returns the name of the TIFF tag with the given id.
func TagName(id uint16) string {
	if name, found := tagNames[id]; found {
		return name
	}
	return fmt.Sprintf("%s0x%x", UnknownPrefix, id)
}
