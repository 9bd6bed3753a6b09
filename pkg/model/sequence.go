// Model for reading input sequences and writing single record FASTA files

package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/logger"
)

// Defining possible error
var ErrEmptySequence = errors.New("sequence is empty")

const DefaultFastaComment = ">sequence:"

// CleanSequence strips the line terminator of a raw input line.
// Only trailing \r and \n are removed, so a final line without newline keeps its last base.
func CleanSequence(raw string) string {
	return strings.TrimRight(raw, "\r\n")
}

// Description is the name used for per-task files and directories.
func Description(ordinal int) string {
	return fmt.Sprintf("extracted%d", ordinal)
}

// ReadSequenceTasks reads one sequence per line. Ordinals follow line numbers;
// blank lines are skipped but still counted.
func ReadSequenceTasks(path string) ([]SequenceTask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sequence file: %w", err)
	}
	defer f.Close()

	var tasks []SequenceTask
	reader := bufio.NewReader(f)
	ordinal := 0

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		done := err != nil

		if line != "" {
			ordinal++
			if strings.TrimSpace(line) == "" {
				logger.Warn("Skipping blank line", zap.String("file", path), zap.Int("line", ordinal))
			} else {
				tasks = append(tasks, SequenceTask{Ordinal: ordinal, Sequence: line})
			}
		}

		if done {
			break
		}
	}

	return tasks, nil
}

// WriteFasta writes seq as a single record FASTA file named fileName+".fasta" in dir,
// replacing any stale file of the same name, and returns its path.
func WriteFasta(seq, dir, comment, fileName string) (string, error) {
	seq = CleanSequence(seq)
	if strings.TrimSpace(seq) == "" {
		return "", ErrEmptySequence
	}
	if comment == "" {
		comment = DefaultFastaComment
	}

	path := filepath.Join(dir, fileName+".fasta")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove stale fasta %s: %w", path, err)
	}

	var b strings.Builder
	b.WriteString(comment)
	if !strings.HasSuffix(comment, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(seq)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write fasta %s: %w", path, err)
	}
	return path, nil
}
