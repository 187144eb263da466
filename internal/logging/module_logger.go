package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

const (
	rootModule      = "readtime"
	markdownModule  = "readtime.markdown"
	pipelineModule  = "readtime.pipeline"
	generatorModule = "readtime.generator"
)

const (
	fieldDocumentPath = "document_path"
	fieldStage        = "stage"
	fieldBuildID      = "build_id"
)

// ModuleLogger returns a logger scoped to module. Without a provider every
// entry is dropped. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RootLogger returns the top level module logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// MarkdownLogger returns the logger used by document loading and rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// PipelineLogger returns the logger used by transform stages.
func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
}

// GeneratorLogger returns the logger used by site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// WithDocumentContext adds the document path and, when set, the stage name.
func WithDocumentContext(logger interfaces.Logger, path, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// WithBuildID tags every entry with the generator build identifier.
func WithBuildID(logger interfaces.Logger, buildID string) interfaces.Logger {
	if strings.TrimSpace(buildID) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldBuildID: buildID})
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
