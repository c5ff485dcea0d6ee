// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

// NumBC7Partitions is the number of two-subset partitions that a BC7 block's
// 6-bit partition field can select.
const NumBC7Partitions = 64

// bc7Partitions holds the BC7 two-subset partition shapes. Bit i of each
// element is the subset (0 or 1) of the pixel at raster position i.
//
// For example, 0xCCCC (the first shape) is 1100 1100 1100 1100 in binary,
// reading each 4-bit row from the right: the left two columns are subset 0
// and the right two columns are subset 1.
var bc7Partitions = [NumBC7Partitions]uint16{
	0xCCCC, 0x8888, 0xEEEE, 0xECC8, 0xC880, 0xFEEC, 0xFEC8, 0xEC80,
	0xC800, 0xFFEC, 0xFE80, 0xE800, 0xFFE8, 0xFF00, 0xFFF0, 0xF000,
	0xF710, 0x008E, 0x7100, 0x08CE, 0x008C, 0x7310, 0x3100, 0x8CCE,
	0x088C, 0x3110, 0x6666, 0x366C, 0x17E8, 0x0FF0, 0x718E, 0x399C,
	0xAAAA, 0xF0F0, 0x5A5A, 0x33CC, 0x3C3C, 0x55AA, 0x9696, 0xA55A,
	0x73CE, 0x13C8, 0x324C, 0x3BDC, 0x6996, 0xC33C, 0x9966, 0x0660,
	0x0272, 0x04E4, 0x4E40, 0x2720, 0xC936, 0x936C, 0x39C6, 0x639C,
	0x9336, 0x9CC6, 0x817E, 0xE718, 0xCCF0, 0x0FCC, 0x7744, 0xEE22,
}

// bc7AnchorsSecondSubset holds, per partition, the raster position of subset
// 1's anchor pixel. Subset 0's anchor is always pixel 0.
//
// An anchor pixel's index is stored with one bit instead of two: its most
// significant bit is implicitly zero.
var bc7AnchorsSecondSubset = [NumBC7Partitions]uint8{
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 2, 8, 2, 2, 8, 8, 15,
	2, 8, 2, 2, 8, 8, 2, 2,
	15, 15, 6, 8, 2, 8, 15, 15,
	2, 8, 2, 2, 2, 15, 15, 6,
	6, 2, 6, 8, 15, 15, 2, 2,
	15, 15, 15, 15, 15, 2, 2, 15,
}

// bc7HardwareIndex maps a ColorPalette index (0 = first endpoint, 1 = second
// endpoint, 2 and 3 = the ⅓ and ⅔ interpolations) to the index that a BC7
// decoder expects (0, 1, 2, 3 = weights 0, 21, 43, 64 out of 64).
var bc7HardwareIndex = [4]uint8{0, 3, 1, 2}
