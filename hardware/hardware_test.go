package hardware

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/wippyai/wlegl/errors"
)

type stubModule struct{ id string }

func (m stubModule) ID() string                   { return m.id }
func (m stubModule) Name() string                 { return "stub gralloc" }
func (m stubModule) Author() string               { return "wlegl" }
func (m stubModule) APIVersion() (uint16, uint16) { return 1, 0 }

type stubLibrary struct {
	lookupErr error
	getErr    error
	lookups   int
	gets      int
	nilModule bool
}

func (l *stubLibrary) Lookup(symbol string) (GetModuleFunc, error) {
	l.lookups++
	if l.lookupErr != nil {
		return nil, l.lookupErr
	}
	if symbol != GetModuleSymbol {
		return nil, stderrors.New("undefined symbol " + symbol)
	}
	return func(id string) (Module, error) {
		l.gets++
		if l.getErr != nil {
			return nil, l.getErr
		}
		if l.nilModule {
			return nil, nil
		}
		return stubModule{id: id}, nil
	}, nil
}

func openCounting(lib *stubLibrary, err error, opens *int) OpenFunc {
	return func(path string) (Library, error) {
		*opens++
		if err != nil {
			return nil, err
		}
		return lib, nil
	}
}

func TestLoader_LoadOnce(t *testing.T) {
	t.Parallel()

	var opens int
	lib := &stubLibrary{}
	l := NewLoader("/system/lib/libhardware.so", GrallocModuleID, openCounting(lib, nil, &opens))

	m1, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, GrallocModuleID, m1.ID())

	m2, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, m1, m2)

	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, lib.lookups)
	assert.Equal(t, 1, lib.gets)
	assert.Equal(t, "/system/lib/libhardware.so", l.Path())
	assert.Equal(t, GrallocModuleID, l.ModuleID())
}

func TestLoader_LibraryMissing(t *testing.T) {
	t.Parallel()

	var opens int
	l := NewLoader("/nonexistent/libhardware.so", GrallocModuleID,
		openCounting(nil, stderrors.New("cannot open shared object"), &opens))

	m, err := l.Load()
	assert.Nil(t, m)
	require.ErrorIs(t, err, errors.ErrModuleLoad)

	// No retry: the cached failure is returned.
	_, again := l.Load()
	assert.Same(t, err, again)
	assert.Equal(t, 1, opens)
}

func TestLoader_SymbolMissing(t *testing.T) {
	t.Parallel()

	var opens int
	lib := &stubLibrary{lookupErr: stderrors.New("undefined symbol")}
	l := NewLoader("/system/lib/libhardware.so", GrallocModuleID, openCounting(lib, nil, &opens))

	_, err := l.Load()
	require.ErrorIs(t, err, errors.ErrSymbolNotFound)
	assert.Contains(t, err.Error(), GetModuleSymbol)
	assert.Zero(t, lib.gets)
}

func TestLoader_ModuleLookupFails(t *testing.T) {
	t.Parallel()

	var opens int
	lib := &stubLibrary{getErr: Status(-int32(unix.ENOENT))}
	l := NewLoader("/system/lib/libhardware.so", GrallocModuleID, openCounting(lib, nil, &opens))

	_, err := l.Load()
	require.ErrorIs(t, err, errors.ErrModuleLoad)
	assert.Equal(t, -int32(unix.ENOENT), errors.StatusOf(err))
}

func TestLoader_NilModule(t *testing.T) {
	t.Parallel()

	var opens int
	lib := &stubLibrary{nilModule: true}
	l := NewLoader("/system/lib/libhardware.so", GrallocModuleID, openCounting(lib, nil, &opens))

	_, err := l.Load()
	assert.ErrorIs(t, err, errors.ErrModuleLoad)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	l := Default()
	assert.Same(t, l, Default())
	assert.Equal(t, DefaultLibraryPath, l.Path())
	assert.Equal(t, GrallocModuleID, l.ModuleID())
}

func TestLibraryPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/system/lib64/libhardware.so", libraryPath("arm64"))
	assert.Equal(t, "/system/lib/libhardware.so", libraryPath("arm"))
	assert.Equal(t, "/system/lib/libhardware.so", libraryPath("386"))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Err(0))

	err := Err(-int32(unix.EINVAL))
	require.Error(t, err)
	assert.Equal(t, unix.EINVAL.Error(), err.Error())
	assert.Equal(t, -int32(unix.EINVAL), errors.StatusOf(err))
	assert.Equal(t, "hal status 3", Status(3).Error())
}
