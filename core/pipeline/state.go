// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

// State is the phase a [Pipeline] run is in.
type State int

// Run phases, in the order they are entered.
// Failed is terminal and only reachable from ExtractingSource.
const (
	Idle State = iota
	ExtractingSource
	Failed
	SourceReady
	MergingLocale
	SourceRewrite
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ExtractingSource:
		return "extracting-source"
	case Failed:
		return "failed"
	case SourceReady:
		return "source-ready"
	case MergingLocale:
		return "merging-locale"
	case SourceRewrite:
		return "source-rewrite"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
