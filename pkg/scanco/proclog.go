package scanco

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// AIM processing log: an ASCII key/value text section following the
// image-struct. Comment lines start with '!'; data lines separate a key
// from its value with two or more spaces.

// parseProcessingLog scans data line by line, updating h for every
// recognized key. Unknown keys and malformed lines are ignored, matching
// the format's tolerance for scanner-version drift.
func parseProcessingLog(data []byte, h *ScancoHeader) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || line[0] == '!' {
			continue
		}
		sep := strings.Index(line, "  ")
		if sep < 0 {
			continue
		}
		key := line[:sep]
		value := strings.TrimSpace(line[sep+2:])
		applyProcessingLogKey(h, key, value)
	}

	if h.MuScaling > 1 {
		h.RescaleSlope /= h.MuScaling
	}
	h.SliceThickness = h.Geometry.Spacing[2]
	h.SliceIncrement = h.Geometry.Spacing[2]
}

func applyProcessingLogKey(h *ScancoHeader, key, value string) {
	switch key {
	case "Time":
		h.ModificationDate = value
	case "Original Creation-Date":
		h.CreationDate = value
	case "Orig-ISQ-Dim-p":
		parts := strings.Fields(value)
		for i := 0; i < 3 && i < len(parts); i++ {
			v, _ := strconv.ParseInt(parts[i], 10, 32)
			h.ScanDimensionsPixels[i] = int32(v)
		}
	case "Orig-ISQ-Dim-um":
		parts := strings.Fields(value)
		for i := 0; i < 3 && i < len(parts); i++ {
			v, _ := strconv.ParseFloat(parts[i], 64)
			h.ScanDimensionsPhysical[i] = v * 1e-3
		}
	case "Patient Name":
		h.PatientName = value
	case "Index Patient":
		h.PatientIndex = atoi32(value)
	case "Index Measurement":
		h.MeasurementIndex = atoi32(value)
	case "Site":
		h.Site = atoi32(value)
	case "Scanner ID":
		h.ScannerID = atoi32(value)
	case "Scanner type":
		h.ScannerType = atoi32(value)
	case "No. samples":
		h.NumberOfSamples = atoi32(value)
	case "No. projections per 180":
		h.NumberOfProjections = atoi32(value)
	case "Reconstruction-Alg.":
		h.ReconstructionAlg = atoi32(value)
	case "Mu_Scaling":
		h.MuScaling = atof(value)
	case "Calib. default unit type":
		h.RescaleType = atoi32(value)
	case "Position Slice 1 [um]":
		h.StartPosition = atof(value) * 1e-3
		dimZ := h.Geometry.Dimensions[2]
		h.EndPosition = h.StartPosition + h.Geometry.Spacing[2]*float64(dimZ-1)
	case "Scan Distance [um]":
		h.ScanDistance = atof(value) * 1e-3
	case "Integration time [us]":
		h.SampleTime = atof(value) * 1e-3
	case "Reference line [um]":
		h.ReferenceLine = atof(value) * 1e-3
	case "Energy [V]":
		h.Energy = atof(value) * 1e-3
	case "Intensity [uA]":
		h.Intensity = atof(value) * 1e-3
	case "Minimum data value":
		h.DataRange[0] = int32(atof(value))
	case "Maximum data value":
		h.DataRange[1] = int32(atof(value))
	case "Calibration Data":
		h.CalibrationData = value
	case "Density: unit":
		h.RescaleUnits = value
	case "Density: slope":
		h.RescaleSlope = atof(value)
	case "Density: intercept":
		h.RescaleIntercept = atof(value)
	case "HU: mu water":
		h.MuWater = atof(value)
	}
}

func atoi32(s string) int32 {
	v, _ := strconv.ParseInt(s, 10, 32)
	return int32(v)
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// composeProcessingLog renders h's fields into the fixed-key-order,
// fixed-column text format, so the same header always produces identical
// bytes.
func composeProcessingLog(h *ScancoHeader) []byte {
	var b strings.Builder
	b.WriteString("! \n")
	b.WriteString("! Processing Log\n")
	b.WriteString("!\n")
	b.WriteString(rule())
	writeKV(&b, "Created by", "ctlio")
	writeKV(&b, "Time", h.ModificationDate)
	writeKV(&b, "Original Creation-Date", h.CreationDate)
	writeKV(&b, "Orig-ISQ-Dim-p", fmt.Sprintf("%d       %d        %d",
		h.ScanDimensionsPixels[0], h.ScanDimensionsPixels[1], h.ScanDimensionsPixels[2]))
	writeKV(&b, "Orig-ISQ-Dim-um", fmt.Sprintf("%g       %g        %g",
		h.ScanDimensionsPhysical[0]*1e3, h.ScanDimensionsPhysical[1]*1e3, h.ScanDimensionsPhysical[2]*1e3))
	b.WriteString(rule())
	writeKV(&b, "Patient Name", h.PatientName)
	writeKV(&b, "Index Patient", fmt.Sprintf("%d", h.PatientIndex))
	writeKV(&b, "Index Measurement", fmt.Sprintf("%d", h.MeasurementIndex))
	b.WriteString(rule())
	writeKV(&b, "Site", fmt.Sprintf("%d", h.Site))
	writeKV(&b, "Scanner ID", fmt.Sprintf("%d", h.ScannerID))
	writeKV(&b, "Scanner type", fmt.Sprintf("%d", h.ScannerType))
	writeKV(&b, "Position Slice 1 [um]", fmt.Sprintf("%g", h.StartPosition*1e3))
	writeKV(&b, "No. samples", fmt.Sprintf("%d", h.NumberOfSamples))
	writeKV(&b, "No. projections per 180", fmt.Sprintf("%d", h.NumberOfProjections))
	writeKV(&b, "Scan Distance [um]", fmt.Sprintf("%g", h.ScanDistance*1e3))
	writeKV(&b, "Integration time [us]", fmt.Sprintf("%g", h.SampleTime*1e3))
	writeKV(&b, "Reference line [um]", fmt.Sprintf("%g", h.ReferenceLine*1e3))
	writeKV(&b, "Reconstruction-Alg.", fmt.Sprintf("%d", h.ReconstructionAlg))
	writeKV(&b, "Energy [V]", fmt.Sprintf("%g", h.Energy*1e3))
	writeKV(&b, "Intensity [uA]", fmt.Sprintf("%g", h.Intensity*1e3))
	b.WriteString(rule())
	writeKV(&b, "Mu_Scaling", fmt.Sprintf("%g", h.MuScaling))
	writeKV(&b, "Calibration Data", h.CalibrationData)
	writeKV(&b, "Calib. default unit type", fmt.Sprintf("%d", h.RescaleType))
	writeKV(&b, "Density: unit", h.RescaleUnits)
	writeKV(&b, "Density: slope", fmt.Sprintf("%g", h.RescaleSlope))
	writeKV(&b, "Density: intercept", fmt.Sprintf("%g", h.RescaleIntercept))
	writeKV(&b, "HU: mu water", fmt.Sprintf("%g", h.MuWater))
	b.WriteString(rule())
	writeKV(&b, "Minimum data value", fmt.Sprintf("%d", h.DataRange[0]))
	writeKV(&b, "Maximum data value", fmt.Sprintf("%d", h.DataRange[1]))
	return []byte(b.String())
}

func rule() string {
	return "!" + strings.Repeat("-", 79) + "\n"
}

// writeKV writes one "key<spaces>value" line, padding the key to a fixed
// column so values line up the way the scanner's own writer produces.
func writeKV(b *strings.Builder, key, value string) {
	const col = 30
	b.WriteString(key)
	pad := col - len(key)
	if pad < 2 {
		pad = 2
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(value)
	b.WriteString("\n")
}
