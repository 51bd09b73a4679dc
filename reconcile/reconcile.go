// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"sort"

	"github.com/stacklok/skillpack-core/manifest"
)

// InstalledSkill is one skill found by the caller's filesystem scan of the
// skills directory.
type InstalledSkill struct {
	// ID is the normalized skill name.
	ID string
	// Version is the installed version.
	Version string
	// Path is where the skill lives on disk.
	Path string
}

// VersionMismatch reports an installed skill whose version differs from the
// lock file.
type VersionMismatch struct {
	ID               string
	InstalledVersion string
	LockedVersion    string
}

// Report is the outcome of comparing installed state against the manifest
// and lock. It is diagnostic only; nothing acts on it here.
type Report struct {
	// Installed echoes every scanned skill for display, regardless of
	// whether it appears elsewhere in the report.
	Installed []InstalledSkill
	// Missing lists declared skill names with no installed counterpart.
	Missing []string
	// Extraneous lists installed skills the manifest does not declare.
	Extraneous []InstalledSkill
	// VersionMismatches lists skills whose installed and locked versions
	// disagree.
	VersionMismatches []VersionMismatch
}

// Clean reports whether the installed state fully agrees with the manifest
// and lock.
func (r *Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Extraneous) == 0 && len(r.VersionMismatches) == 0
}

// Reconcile compares installed skills against declared dependencies and the
// lock file. It is a pure function: no filesystem access, no side effects,
// same inputs always produce the same report.
//
// Missing and mismatch lists are sorted by skill id so reports are stable
// across runs; installed and extraneous keep the scanner's order.
func Reconcile(installed []InstalledSkill, declared map[string]manifest.Dependency, lock *manifest.Lock) Report {
	report := Report{
		Installed: make([]InstalledSkill, len(installed)),
	}
	copy(report.Installed, installed)

	installedByID := make(map[string]*InstalledSkill, len(installed))
	for i := range installed {
		installedByID[installed[i].ID] = &installed[i]
	}

	for id := range declared {
		if _, ok := installedByID[id]; !ok {
			report.Missing = append(report.Missing, id)
		}
	}
	sort.Strings(report.Missing)

	for _, skill := range installed {
		if _, ok := declared[skill.ID]; !ok {
			report.Extraneous = append(report.Extraneous, skill)
		}
	}

	if lock != nil {
		for _, skill := range installed {
			locked, ok := lock.Get(skill.ID)
			if ok && locked.Version != skill.Version {
				report.VersionMismatches = append(report.VersionMismatches, VersionMismatch{
					ID:               skill.ID,
					InstalledVersion: skill.Version,
					LockedVersion:    locked.Version,
				})
			}
		}
		sort.Slice(report.VersionMismatches, func(i, j int) bool {
			return report.VersionMismatches[i].ID < report.VersionMismatches[j].ID
		})
	}

	return report
}
