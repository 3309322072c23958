package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func ReadFloatPairs(filename string) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()
	return ParseFloatPairs(file)
}

// ParseFloatPairs reads whitespace separated two-column numeric data.
// Empty lines and lines starting with '#' are skipped.
func ParseFloatPairs(r io.Reader) ([][]float64, error) {
	var result [][]float64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.Fields(line)

		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}

		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format in line: %q - expected 2 numbers, got %d", line, len(parts))
		}

		x, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
		}

		y, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
		}

		result = append(result, []float64{x, y})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return result, nil
}

func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputName builds the path of an output file: <path><suffix>/<name>.<ext> when
// makeDir is set, <path><name>_<suffix>.<ext> otherwise.
func OutputName(makeDir bool, outputPath, fileSuffix, runName, ext string) (string, error) {
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		if err := os.MkdirAll(outputPath+fileSuffix, 0750); err != nil {
			return "", err
		}
		return outputPath + fileSuffix + "/" + runName + ext, nil
	}
	return outputPath + runName + "_" + fileSuffix + ext, nil
}

func OpenFile(makeDir bool, outputPath, fileSuffix, runName string) (*os.File, error) {
	name, err := OutputName(makeDir, outputPath, fileSuffix, runName, ".txt")
	if err != nil {
		return nil, err
	}
	return os.Create(name)
}
