// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"strings"
)

// Feature is a renderer capability that a device may lack.
type Feature uint32

const (
	FeatureTimestampQuery Feature = 1 << iota
	FeatureTextureCompressionBC
	FeatureIndirectFirstInstance
	FeatureDualSourceBlending
	FeatureStorageTextures
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureTimestampQuery, "timestamp-query"},
	{FeatureTextureCompressionBC, "texture-compression-bc"},
	{FeatureIndirectFirstInstance, "indirect-first-instance"},
	{FeatureDualSourceBlending, "dual-source-blending"},
	{FeatureStorageTextures, "storage-textures"},
}

func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, n := range featureNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Feature(%#x)", uint32(f))
	}
	return strings.Join(parts, "|")
}

// FeatureSupport is the result of a feature check.
type FeatureSupport struct {
	Missing Feature
}

// Supported reports whether nothing is missing.
func (s FeatureSupport) Supported() bool { return s.Missing == 0 }

// Err returns nil when supported, or ErrFeatureMissing naming the flags.
func (s FeatureSupport) Err() error {
	if s.Supported() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFeatureMissing, s.Missing)
}

// CheckFeatures compares the wanted features against what the device has.
func CheckFeatures(have, want Feature) FeatureSupport {
	return FeatureSupport{Missing: want &^ have}
}
