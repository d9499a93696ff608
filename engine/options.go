package engine

import "fmt"

// PredictionScheme selects how attribute values are predicted before
// entropy coding.
type PredictionScheme uint8

const (
	// PredictionDefault lets the encoder pick; values are delta coded.
	PredictionDefault PredictionScheme = iota
	// PredictionNone stores values without prediction.
	PredictionNone
	// PredictionDelta codes each value as the difference to its predecessor.
	PredictionDelta
)

// EncodingMethod selects the connectivity coding.
type EncodingMethod uint8

const (
	// MethodDefault reorders points by first use in the faces and merges
	// duplicate attribute values. Point order is not preserved.
	MethodDefault EncodingMethod = iota
	// MethodSequential keeps the caller's point order and face list as-is.
	MethodSequential
)

func (m EncodingMethod) String() string {
	switch m {
	case MethodDefault:
		return "default"
	case MethodSequential:
		return "sequential"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// MaxQuantizationBits is the largest accepted quantization precision.
const MaxQuantizationBits = 30

type attributeOptions struct {
	quantizationBits int
	prediction       PredictionScheme
	predictionSet    bool
}

// Options configures one encode run. The zero value is usable: speed 5,
// no quantization, delta prediction, default method.
type Options struct {
	encodingSpeed int
	decodingSpeed int
	speedSet      bool
	method        EncodingMethod
	attributes    map[AttributeType]attributeOptions
}

// NewOptions returns options with default settings.
func NewOptions() *Options {
	return &Options{}
}

// SetSpeedOptions sets the encoding and decoding speeds. 0 favours ratio,
// 10 favours speed; values outside the range are clamped.
func (o *Options) SetSpeedOptions(encodingSpeed, decodingSpeed int) {
	o.encodingSpeed = clampSpeed(encodingSpeed)
	o.decodingSpeed = clampSpeed(decodingSpeed)
	o.speedSet = true
}

// Speeds returns the effective encoding and decoding speeds.
func (o *Options) Speeds() (int, int) {
	if !o.speedSet {
		return 5, 5
	}
	return o.encodingSpeed, o.decodingSpeed
}

// SetAttributeQuantization enables lossy quantization of floating point
// attributes of type t. bits must be in [1, MaxQuantizationBits]; 0 disables.
func (o *Options) SetAttributeQuantization(t AttributeType, bits int) error {
	if bits < 0 || bits > MaxQuantizationBits {
		return fmt.Errorf("%w: %d quantization bits for %s", ErrInvalidOptions, bits, t)
	}
	ao := o.attribute(t)
	ao.quantizationBits = bits
	o.setAttribute(t, ao)
	return nil
}

// QuantizationBits returns the configured precision for t, or 0.
func (o *Options) QuantizationBits(t AttributeType) int {
	return o.attributes[t].quantizationBits
}

// SetAttributePredictionScheme selects the prediction for attributes of type t.
func (o *Options) SetAttributePredictionScheme(t AttributeType, p PredictionScheme) {
	ao := o.attribute(t)
	ao.prediction = p
	ao.predictionSet = true
	o.setAttribute(t, ao)
}

// PredictionScheme returns the effective prediction for t.
func (o *Options) PredictionScheme(t AttributeType) PredictionScheme {
	ao := o.attributes[t]
	if !ao.predictionSet || ao.prediction == PredictionDefault {
		return PredictionDelta
	}
	return ao.prediction
}

// SetEncodingMethod selects the connectivity coding.
func (o *Options) SetEncodingMethod(m EncodingMethod) { o.method = m }

// EncodingMethod returns the configured connectivity coding.
func (o *Options) EncodingMethod() EncodingMethod { return o.method }

func (o *Options) attribute(t AttributeType) attributeOptions {
	return o.attributes[t]
}

func (o *Options) setAttribute(t AttributeType, ao attributeOptions) {
	if o.attributes == nil {
		o.attributes = make(map[AttributeType]attributeOptions)
	}
	o.attributes[t] = ao
}

func clampSpeed(s int) int {
	return min(max(s, 0), 10)
}
