// Package magetasks provides organized build tasks for the dpcheck project.
//
// This package contains the build, test and lint tasks used by the
// Magefile. Commands run through mage's sh package so that `mage -v`
// echoes them.
package magetasks
