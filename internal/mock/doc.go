/*
Package mock contains mock implementations of interfaces defined in this
module, intended for use in unit tests.

Mocks are generated with mockgen from the source file that defines the
interface; the go:generate directive lives next to the interface. The
directory structure mirrors the module's packages and the package name of
each mock follows the mock_* pattern, so the mocks of package compositor
are in ./compositor with package name mock_compositor.
*/
package mock
