// Package merit resolves merit names to reference images on disk.
//
// Images live in a flat directory, one PNG per merit, named by the
// lowercased, underscore-joined merit name ("Area of Expertise" is
// area_of_expertise.png). The catalog only serves names it knows about, so
// a lookup can never escape the image directory.
package merit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknown indicates the name does not match any cataloged merit.
var ErrUnknown = errors.New("unknown merit")

// ErrImageMissing indicates the merit is cataloged but its image is absent.
var ErrImageMissing = errors.New("merit image missing")

// names lists the supported Chronicles of Darkness merits.
var names = []string{
	"Area of Expertise",
	"Common Sense",
	"Danger Sense",
	"Direction Sense",
	"Eidetic Memory",
	"Encyclopedic Knowledge",
	"Eye for the Strange",
	"Fast Reflexes",
	"Good Time Management",
	"Holistic Awareness",
	"Indomitable",
	"Interdisciplinary Specialty",
	"Investigative Aide",
	"Investigative Prodigy",
	"Language",
	"Library",
	"Meditative Mind",
	"Multilingual",
	"Patient",
	"Professional Training",
	"Tolerance for Biology",
	"Trained Observer",
	"Vice-Ridden",
	"Ambidextrous",
	"Automotive Genius",
	"Crack Driver",
	"Demolisher",
	"Double Jointed",
	"Fleet of Foot",
	"Giant",
	"Hardy",
	"Greyhound",
	"Iron Stamina",
	"Parkour",
	"Quick Draw",
	"Relentless",
	"Seizing the Edge",
	"Sleight of Hand",
	"Small-Framed",
	"Stunt Driver",
	"Allies",
	"Alternate Identity",
	"Anonymity",
	"Barfly",
	"Closed Book",
	"Contacts",
	"Fame",
	"Fast-Talking",
	"Fixer",
	"Hobbyist Clique",
	"Inspiring",
	"Iron Will",
	"Mentor",
	"Mystery Cult Initiation",
	"Pusher",
	"Resources",
	"Retainer",
	"Safe Place",
	"Small Unit Tactics",
	"Spin Doctor",
	"Staff",
	"Status",
	"Striking Looks",
	"Sympathetic",
	"Table Turner",
	"Takes One to Know One",
	"Taste",
	"True Friend",
	"Untouchable",
	"Aura Reading",
	"Automatic Writing",
	"Biokinesis",
	"Clairvoyance",
	"Curser",
	"Laying on Hands",
	"Medium",
	"Mind of a Madman",
	"Omen Sensitivity",
	"Numbing Touch",
	"Psychokinesis",
	"Psychometry",
	"Telekinesis",
	"Telepathy",
	"Thief of Fate",
	"Unseen Sense",
	"Armed Defense",
	"Cheap Shot",
	"Choke Hold",
	"Close Quarters Combat",
	"Defensive Combat",
	"Fighting Finesse",
	"Firefight",
	"Grappling",
	"Heavy Weapons",
	"Improvised Weaponry",
	"Iron Skin",
	"Light Weapons",
	"Marksmanship",
	"Martial Arts",
	"Police Tactics",
	"Shiv",
	"Street Fighting",
	"Unarmed Defense",
}

// Stub normalizes a merit name to its image file stub.
func Stub(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// Image is a resolved merit reference image.
type Image struct {
	// Name is the canonical merit name.
	Name string
	// Stub is the normalized file stub, without extension.
	Stub string
	// File is the image file name.
	File string
	// Path is the image location on disk.
	Path string
}

// Catalog looks up merit images under a directory.
type Catalog struct {
	dir   string
	stubs map[string]string
}

// NewCatalog creates a catalog serving images from dir.
func NewCatalog(dir string) *Catalog {
	stubs := make(map[string]string, len(names))
	for _, name := range names {
		stubs[Stub(name)] = name
	}
	return &Catalog{dir: dir, stubs: stubs}
}

// Lookup resolves a merit name, case- and spacing-insensitively, to its
// image on disk.
func (c *Catalog) Lookup(name string) (Image, error) {
	stub := Stub(name)
	canonical, ok := c.stubs[stub]
	if !ok {
		return Image{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}

	file := stub + ".png"
	path := filepath.Join(c.dir, file)
	if _, err := os.Stat(path); err != nil {
		return Image{}, fmt.Errorf("%w: %s", ErrImageMissing, file)
	}

	return Image{Name: canonical, Stub: stub, File: file, Path: path}, nil
}
