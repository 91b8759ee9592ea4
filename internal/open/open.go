package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
)

// OpenTranscript opens the converted text file of an archived transcript
// in $EDITOR, positioned at the header of hitBlockID when given.
func OpenTranscript(db *index.DB, key string, hitBlockID int) error {
	tr, err := db.GetTranscriptByKey(key)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return fmt.Errorf("transcript not found: %s", key)
	}

	filePath := tr.OutputPath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum, err := BlockLine(db, key, hitBlockID)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return editorCommand(editor, filePath, lineNum).Run()
}

// BlockLine returns the 1-based line of a block's header, or 1 when the
// block is unknown.
func BlockLine(db *index.DB, key string, hitBlockID int) (int, error) {
	if hitBlockID < 0 {
		return 1, nil
	}
	blocks, err := db.GetBlocks(key)
	if err != nil {
		return 0, fmt.Errorf("get blocks: %w", err)
	}
	for _, b := range blocks {
		if b.BlockID == hitBlockID && b.LineNumber > 0 {
			return b.LineNumber, nil
		}
	}
	return 1, nil
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		cmd = exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		cmd = exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
