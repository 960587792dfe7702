package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"winsbygroup.com/priceserver/internal/apperror"
)

// fields returns pointers to the vector's fields in scoring order.
func (v *Vector) fields() []**float64 {
	return []**float64{
		&v.Crim, &v.Zn, &v.Indus, &v.Nox, &v.Rm, &v.Age, &v.Dis,
		&v.Rad, &v.Tax, &v.Ptratio, &v.B, &v.Lstat, &v.Chas,
	}
}

// Values returns the features as a slice in scoring order.
// A missing or non-finite field fails with InvalidFeatureVector; nothing is
// defaulted.
func (v *Vector) Values() ([]float64, error) {
	if v == nil {
		return nil, apperror.New(apperror.InvalidFeatureVector, "feature vector is required")
	}

	out := make([]float64, 0, Count)
	var missing, invalid []string
	for i, f := range v.fields() {
		switch {
		case *f == nil:
			missing = append(missing, Names[i])
		case math.IsNaN(**f) || math.IsInf(**f, 0):
			invalid = append(invalid, Names[i])
		default:
			out = append(out, **f)
		}
	}

	if len(missing) > 0 {
		return nil, apperror.Newf(apperror.InvalidFeatureVector,
			"missing feature(s): %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return nil, apperror.Newf(apperror.InvalidFeatureVector,
			"feature(s) must be finite numbers: %s", strings.Join(invalid, ", "))
	}
	return out, nil
}

// FromValues builds a Vector from a slice in scoring order.
func FromValues(values []float64) (*Vector, error) {
	if len(values) != Count {
		return nil, apperror.Newf(apperror.DimensionMismatch,
			"expected %d features, got %d", Count, len(values))
	}
	v := &Vector{}
	for i, f := range v.fields() {
		val := values[i]
		*f = &val
	}
	return v, nil
}

// Decode reads a JSON feature object. Keys outside Names make the vector
// wider than the model and fail with DimensionMismatch; values that are not
// numbers or null fail with InvalidFeatureVector.
func Decode(r io.Reader) (*Vector, error) {
	var raw map[string]*float64
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperror.Wrap(apperror.InvalidFeatureVector, "request body is empty", err)
		}
		return nil, apperror.Wrap(apperror.InvalidFeatureVector,
			"feature vector must be a JSON object of numbers or nulls", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperror.Wrap(apperror.InvalidFeatureVector,
			"request body must hold a single JSON object", err)
	}

	var unknown []string
	for k := range raw {
		if !isName(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, apperror.Newf(apperror.DimensionMismatch,
			"expected %d features, got %d (unexpected: %s)",
			Count, len(raw), strings.Join(unknown, ", "))
	}

	v := &Vector{}
	for i, f := range v.fields() {
		*f = raw[Names[i]]
	}
	return v, nil
}

func isName(s string) bool {
	for _, n := range Names {
		if n == s {
			return true
		}
	}
	return false
}

// String renders the vector for debug logs.
func (v *Vector) String() string {
	parts := make([]string, 0, Count)
	for i, f := range v.fields() {
		if *f == nil {
			parts = append(parts, Names[i]+"=null")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%g", Names[i], **f))
	}
	return strings.Join(parts, " ")
}
