// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shamirgeneric implements shamir secret sharing with a generic field structure.
package shamirgeneric

import (
	"fmt"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/secrets"
)

// SplitSecret splits every subsecret into metadata.NumShares shares where any
// metadata.Degree+1 shares can be combined to reconstruct it using shamir secret sharing.
// Share i is evaluated at X = i+1.
func SplitSecret(metadata secrets.Metadata, subsecrets []field.Element, gf field.GaloisField) (secrets.Split, error) {
	if err := validateMetadata(metadata); err != nil {
		return secrets.Split{}, err
	}
	numShares := metadata.NumShares
	shares := make([]secrets.Share, numShares)
	xs := make([]field.Element, numShares)
	for i := range shares {
		shares[i].X = i + 1
		shares[i].Values = make([]field.Element, 0, len(subsecrets))
		xs[i] = gf.CreateElement(uint64(i + 1))
	}

	// For each subsecret we build a polynomial of degree N, where N is `Degree`.
	// Each subsecret is the constant coefficient in the polynomial and every other coefficient
	// is selected as a uniformly random field element:
	// subsecret + R_1 * x^1 + R_2 * X^2 + ... + R_N * X^N
	for _, subsecret := range subsecrets {
		coefficients := make([]field.Element, metadata.Degree+1)
		coefficients[0] = subsecret
		for i := 1; i < len(coefficients); i++ {
			var err error
			if coefficients[i], err = gf.NewRandom(); err != nil {
				return secrets.Split{}, err
			}
		}
		// shares[0] = 			[ F1(1), F2(1), ..., FN(1) ]
		// shares[1] = 			[ F1(2), F2(2), ..., FN(2) ]
		// shares[N - 1] = 	[ F1(N), F2(N), ..., FN(N) ]
		for i := range shares {
			shares[i].Values = append(shares[i].Values, evaluatePolynomial(coefficients, xs[i], gf))
		}
	}
	return secrets.Split{
		Shares:   shares,
		Metadata: metadata,
	}, nil
}

// evaluates a polynomial at `x` where `coefficients` take the form:
// f(x) = c[n-1] * x^(n-1) + c[n-2] * x^(n-2) + ... + c[1] * x^1 + c[0]
func evaluatePolynomial(coefficients []field.Element, x field.Element, gf field.GaloisField) field.Element {
	sum := gf.CreateElement(0)
	for i := len(coefficients) - 1; i > 0; i-- {
		sum = sum.Add(coefficients[i]).Multiply(x)
	}
	return sum.Add(coefficients[0])
}

// Reconstruct recovers every subsecret from the shares. The first Degree+1
// shares are interpolated; every further share must lie on the same
// polynomial, otherwise an error wrapping errkind.ErrReconstructionMismatch
// is returned.
func Reconstruct(splitSecret secrets.Split, gf field.GaloisField) ([]field.Element, error) {
	if err := validateReconstructInput(splitSecret); err != nil {
		return nil, err
	}
	numPoints := splitSecret.Metadata.Degree + 1
	xVals := make([]field.Element, len(splitSecret.Shares))
	for i, s := range splitSecret.Shares {
		xVals[i] = gf.CreateElement(uint64(s.X))
	}
	// Precompute the Lagrange coefficients for the constant term and for
	// every share that is not used in the interpolation.
	coefficients, err := lagrangeCoefficients(xVals[:numPoints], gf.CreateElement(0), gf)
	if err != nil {
		return nil, err
	}
	checks := make([][]field.Element, 0, len(xVals)-numPoints)
	for _, x := range xVals[numPoints:] {
		c, err := lagrangeCoefficients(xVals[:numPoints], x, gf)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}

	numSubSecrets := len(splitSecret.Shares[0].Values)
	subsecrets := make([]field.Element, numSubSecrets)
	yVals := make([]field.Element, numPoints)
	for i := 0; i < numSubSecrets; i++ {
		for j, s := range splitSecret.Shares[:numPoints] {
			yVals[j] = s.Values[i]
		}
		// interpolatePolynomial recovers the C[0] coefficient, the geometric interpretation
		// of the intersection with the Y axis.
		subsecrets[i], err = interpolatePolynomial(coefficients, yVals, gf)
		if err != nil {
			return nil, err
		}
		for k, c := range checks {
			share := splitSecret.Shares[numPoints+k]
			want, err := interpolatePolynomial(c, yVals, gf)
			if err != nil {
				return nil, err
			}
			if !want.Equal(share.Values[i]) {
				return nil, fmt.Errorf("%w: share at x=%d is not on the interpolated polynomial", errkind.ErrReconstructionMismatch, share.X)
			}
		}
	}
	return subsecrets, nil
}

// performs lagrange polynomial interpolation to recover a polynomial from a set of points.
// receives a set of points on a finite field:
// ∑i={1,n} y[i] * ( ∏j={1,n,j≠i} ( (at - x[j]) / ( x[i] - x[j]) ) )
// lagrange coefficients are precalculated and the y coordinates are used to compute the sum.
func interpolatePolynomial(lagCoeff []field.Element, yVals []field.Element, gf field.GaloisField) (field.Element, error) {
	if len(lagCoeff) != len(yVals) {
		return nil, fmt.Errorf("invalid lagrange coefficients")
	}
	sum := gf.CreateElement(0)
	for i, y := range yVals {
		sum = sum.Add(y.Multiply(lagCoeff[i]))
	}
	return sum, nil
}

// recovers the coefficients to evaluate the interpolating polynomial at `at` using the x coordinates.
// ∏j={1,n,j≠i} ( (at - x[j]) / ( x[i] - x[j] ) )
func lagrangeCoefficients(x []field.Element, at field.Element, gf field.GaloisField) ([]field.Element, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("must have at least 1 value")
	}
	out := make([]field.Element, len(x))
	for i := range x {
		out[i] = gf.CreateElement(1)
		for j := range x {
			if i == j {
				continue
			}
			if x[i].Equal(x[j]) {
				return nil, fmt.Errorf("all shares should be unique point")
			}
			diff, err := x[i].Subtract(x[j]).Inverse()
			if err != nil {
				return nil, err
			}
			out[i] = out[i].Multiply(at.Subtract(x[j])).Multiply(diff)
		}
	}
	return out, nil
}

func validateMetadata(metadata secrets.Metadata) error {
	if metadata.NumShares < 1 {
		return fmt.Errorf("numShares must be at least 1")
	}
	if metadata.Degree < 0 {
		return fmt.Errorf("degree must not be negative")
	}
	if metadata.Degree+1 > metadata.NumShares {
		return fmt.Errorf("degree %d needs at least %d shares, got %d", metadata.Degree, metadata.Degree+1, metadata.NumShares)
	}
	return nil
}

func validateReconstructInput(splitSecret secrets.Split) error {
	if err := validateMetadata(splitSecret.Metadata); err != nil {
		return err
	}
	if len(splitSecret.Shares) < splitSecret.Metadata.Degree+1 {
		return fmt.Errorf("not enough shares to reconstruct the secret, need at least %d, got: %d", splitSecret.Metadata.Degree+1, len(splitSecret.Shares))
	}
	seen := map[int]bool{}
	for _, s := range splitSecret.Shares {
		if s.X <= 0 {
			return fmt.Errorf("invalid X value %d", s.X)
		}
		if seen[s.X] {
			return fmt.Errorf("duplicate X value %d", s.X)
		}
		seen[s.X] = true
		if len(s.Values) != len(splitSecret.Shares[0].Values) {
			return fmt.Errorf("%w: share at x=%d holds %d values, want %d", errkind.ErrReconstructionMismatch, s.X, len(s.Values), len(splitSecret.Shares[0].Values))
		}
	}
	return nil
}
