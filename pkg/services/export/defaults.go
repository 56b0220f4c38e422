package export

import (
	"context"
	"io"
	"os"
)

type Options struct {
	S3     S3Options
	Stdout io.Writer
}

// NewDefaultRegistry registers the file, stdout and s3 sinks.
func NewDefaultRegistry(opts Options) (Registry, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	r := NewRegistry()
	factories := map[string]SinkFactory{
		SchemeFile: FileFactory,
		SchemeStdout: func(context.Context, string) (Sink, error) {
			return NewWriterSink(opts.Stdout), nil
		},
		SchemeS3: S3Factory(opts.S3),
	}
	for scheme, factory := range factories {
		if err := r.Register(scheme, factory); err != nil {
			return nil, err
		}
	}
	return r, nil
}
