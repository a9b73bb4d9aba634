// Package provision implements the provisioning run: preflight checks,
// system preparation, firewall staging, one installer routine per managed
// service, and the final supervisor handoff.
//
// The Provisioner mutates the host exclusively through the collaborator
// interfaces declared in pkg/host, so the whole sequence is testable against
// fakes. Every routine is safely re-runnable: packages, binaries, unit files
// and service accounts are probed before they are created, and pre-existing
// configuration files are backed up before being overwritten.
//
// Failure policy is fail-fast and non-recoverable. Any failed step aborts the
// run with a diagnostic naming the failed operation; files and packages
// already in place stay in place. The only cleanup guaranteed on every exit
// path is removal of the per-run download workspace.
package provision
