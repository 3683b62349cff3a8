package dirflow

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/hardyml/hardy/hardy-go/catalogue"
	"github.com/hardyml/hardy/hardy-go/encode"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/spf13/afero"
)

// DefaultFolder is the folder created under the base path when none is given.
const DefaultFolder = "rgb_for_keras"

const imageExt = ".png"

// UnsafeOverwriteError is returned when an existing target directory cannot be cleared
// without risking unrelated files.
type UnsafeOverwriteError struct {
	Path   string
	Reason string
}

func (e *UnsafeOverwriteError) Error() string {
	return fmt.Sprintf("refusing to overwrite %s: %s", e.Path, e.Reason)
}

// Materialize writes records as {basepath}/{newfolder}/{label}/{serial}.png and returns the
// folder path. An existing non-empty folder is only replaced when deleteExisting is set and
// the folder holds nothing but label folders of png files.
func Materialize(fs afero.Fs, records []catalogue.Record, basepath, newfolder string, deleteExisting bool) (string, error) {
	if newfolder == "" {
		newfolder = DefaultFolder
	}
	target := filepath.Join(basepath, newfolder)

	if err := prepare(fs, target, deleteExisting); err != nil {
		return "", err
	}

	for _, label := range catalogue.Labels(records) {
		if err := fs.MkdirAll(filepath.Join(target, label), 0755); err != nil {
			return "", errors.Wrapf(err, "creating class folder %s", label)
		}
	}
	for _, r := range records {
		if err := writePNG(fs, filepath.Join(target, r.Label, r.Serial+imageExt), r.Image); err != nil {
			return "", err
		}
	}
	return target, nil
}

func prepare(fs afero.Fs, target string, deleteExisting bool) error {
	fi, err := fs.Stat(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "checking %s", target)
	}
	if !fi.IsDir() {
		return &UnsafeOverwriteError{Path: target, Reason: "not a directory"}
	}

	entries, err := afero.ReadDir(fs, target)
	if err != nil {
		return errors.Wrapf(err, "listing %s", target)
	}
	if len(entries) == 0 {
		return nil
	}
	if !deleteExisting {
		return &UnsafeOverwriteError{Path: target, Reason: "directory is not empty"}
	}

	// verify the whole tree before deleting anything
	for _, entry := range entries {
		folder := filepath.Join(target, entry.Name())
		if !entry.IsDir() {
			return &UnsafeOverwriteError{Path: target, Reason: fmt.Sprintf("%s is not a folder", entry.Name())}
		}
		files, err := afero.ReadDir(fs, folder)
		if err != nil {
			return errors.Wrapf(err, "listing %s", folder)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), imageExt) {
				return &UnsafeOverwriteError{Path: target, Reason: fmt.Sprintf("%s contains %s", entry.Name(), f.Name())}
			}
		}
	}
	return errors.WrapfOrNil(fs.RemoveAll(target), "clearing %s", target)
}

func writePNG(fs afero.Fs, path string, im *encode.Image) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer errors.Defer(&err, f.Close)

	return errors.WrapfOrNil(imgio.PNGEncoder()(f, im.RGBA()), "encoding %s", path)
}

// Scan reads a tree written by Materialize back into records, ordered by label and then
// serial. Files without a png extension are ignored.
func Scan(fs afero.Fs, root string) ([]catalogue.Record, error) {
	labels, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", root)
	}

	var records []catalogue.Record
	for _, l := range labels {
		if !l.IsDir() {
			continue
		}
		files, err := afero.ReadDir(fs, filepath.Join(root, l.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", l.Name())
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
		for _, fi := range files {
			if fi.IsDir() || !strings.HasSuffix(fi.Name(), imageExt) {
				continue
			}
			im, err := readPNG(fs, filepath.Join(root, l.Name(), fi.Name()))
			if err != nil {
				return nil, err
			}
			records = append(records, catalogue.Record{
				Serial: strings.TrimSuffix(fi.Name(), imageExt),
				Image:  im,
				Label:  l.Name(),
			})
		}
	}
	return records, nil
}

func readPNG(fs afero.Fs, path string) (*encode.Image, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return encode.FromImage(img), nil
}
