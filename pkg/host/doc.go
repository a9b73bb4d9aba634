// Package host defines the collaborator interfaces through which the
// provisioner mutates the machine: external command execution, the OS package
// manager, the firewall, service accounts, the systemd supervisor, archive
// downloads, and extraction.
//
// Each collaborator is a small interface with an exec- or dbus-backed
// implementation, so the orchestration logic in pkg/provision can be tested
// against fakes without touching a real host.
package host
