package dataflow

import (
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/ports"
)

var (
	defaultSinkMaker   ports.SinkMaker   = memory.NewSink
	defaultSourceMaker ports.SourceMaker = memory.NewSource
)
