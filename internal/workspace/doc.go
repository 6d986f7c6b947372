// Package workspace manages gg's reserved per-project directory,
// .gg, the same way the teacher's internal/projectintegration/engine/workspace
// manages .scriptweaver: zero-config creation of required
// subdirectories, and strict rejection of any unauthorized file sitting
// alongside them.
package workspace
