package utils

import (
	"bufio"
	"io"
	"sync"
)

// FlushingWriter buffers progress output and flushes it after every write so that
// lines printed by forksync stay ordered ahead of output from child processes
// sharing the same terminal.
type FlushingWriter struct {
	buffered *bufio.Writer
	mutex    sync.Mutex
}

// NewFlushingWriter wraps the provided writer. A nil writer yields nil.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{buffered: bufio.NewWriter(writer)}
}

// Write buffers data and flushes it to the underlying writer before returning.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.buffered == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.buffered.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, flushingWriter.buffered.Flush()
}
