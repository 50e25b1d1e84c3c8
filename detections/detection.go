// Package detections - detection batches, raw-output decoding, and filtering.
package detections

import "fmt"

// Detection is one predicted object instance. Box is always canonical
// [x1, y1, x2, y2] in the model's input coordinate space; decoding
// normalizes away per-family coordinate orders.
type Detection struct {
	// The bounding box of the detection.
	Box [4]float32
	// The predicted class index of the detection.
	Class int
	// The confidence score of the detection, in [0, 1].
	Score float32
}

// Batch is an ordered sequence of detections. The upstream inference
// engine guarantees descending score order; nothing here re-sorts it.
type Batch []Detection

// BoxOrder names the coordinate convention a model family emits boxes in.
// Different families use different orders, and a silent mismatch draws
// plausible-looking but wrong boxes, so the order is always explicit
// configuration rather than inferred.
type BoxOrder string

const (
	// OrderXYXY is [x_min, y_min, x_max, y_max].
	OrderXYXY BoxOrder = "xyxy"
	// OrderYXYX is [y_min, x_min, y_max, x_max], used by TensorFlow
	// detection models.
	OrderYXYX BoxOrder = "yxyx"
	// OrderCXCYWH is [center_x, center_y, width, height], used by
	// YOLO-family models.
	OrderCXCYWH BoxOrder = "cxcywh"
)

// Layout describes how a model family encodes its boxes.
type Layout struct {
	// Order is the coordinate convention of each 4-element box.
	Order BoxOrder `json:"order" yaml:"order"`
	// Normalized is true when coordinates are fractions of the input
	// size rather than absolute input-space pixels.
	Normalized bool `json:"normalized" yaml:"normalized"`
}

// Family is the family of detection models.
type Family string

const (
	// FamilySSD is the SSD / TensorFlow Object Detection family.
	FamilySSD Family = "ssd"
	// FamilyFasterRCNN is the Faster R-CNN family.
	FamilyFasterRCNN Family = "fasterrcnn"
	// FamilyYOLO is the YOLO family.
	FamilyYOLO Family = "yolo"
	// FamilyDETR is the DETR / D-FINE transformer family.
	FamilyDETR Family = "detr"
)

// FamilyLayout returns the box layout convention of a model family.
func FamilyLayout(f Family) (Layout, error) {
	switch f {
	case FamilySSD:
		return Layout{Order: OrderYXYX, Normalized: true}, nil
	case FamilyFasterRCNN:
		return Layout{Order: OrderXYXY, Normalized: false}, nil
	case FamilyYOLO:
		return Layout{Order: OrderCXCYWH, Normalized: false}, nil
	case FamilyDETR:
		return Layout{Order: OrderXYXY, Normalized: false}, nil
	default:
		return Layout{}, fmt.Errorf("unsupported model family: %q", f)
	}
}

// canonicalize reorders a raw 4-element box into [x1, y1, x2, y2].
func canonicalize(raw [4]float32, order BoxOrder) ([4]float32, error) {
	switch order {
	case OrderXYXY:
		return raw, nil
	case OrderYXYX:
		return [4]float32{raw[1], raw[0], raw[3], raw[2]}, nil
	case OrderCXCYWH:
		cx, cy, w, h := raw[0], raw[1], raw[2], raw[3]
		return [4]float32{cx - w/2, cy - h/2, cx + w/2, cy + h/2}, nil
	default:
		return [4]float32{}, fmt.Errorf("unsupported box order: %q", order)
	}
}
