// SPDX-License-Identifier: GPL-2.0-or-later

package math

type Number interface {
	int | int32 | int64 | float32 | float64
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// RoundToInt rounds half away from zero, the way float to fixed-point
// conversions of the light tables expect.
func RoundToInt[F float32 | float64](f F) int64 {
	if f < 0 {
		return -int64(-f + 0.5)
	}
	return int64(f + 0.5)
}
