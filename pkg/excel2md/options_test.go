package excel2md

import "testing"

func optBool(v bool) *bool { return &v }

func TestOptionsTriStateDefaults(t *testing.T) {
	opts := DefaultOptions()
	if !opts.ShouldDetectHeader() {
		t.Error("header detection should default on")
	}
	if !opts.ShouldDetectAlign() {
		t.Error("align detection should default on")
	}
	if !opts.ShouldKeepSourceTable() {
		t.Error("diagrams should keep their source table by default")
	}
}

func TestOptionsTriStateOverrides(t *testing.T) {
	opts := DefaultOptions()
	opts.HeaderDetection = optBool(false)
	opts.AlignDetection = optBool(false)
	opts.KeepSourceTable = optBool(false)
	if opts.ShouldDetectHeader() || opts.ShouldDetectAlign() || opts.ShouldKeepSourceTable() {
		t.Error("explicit false should win over the defaults")
	}
}
