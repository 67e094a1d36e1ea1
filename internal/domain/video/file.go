package video

import "context"

// File binds a store to one saved reference, the way a model field exposes its stored file.
type File struct {
	store *Store
	Ref   string
}

// File returns an accessor for ref.
func (s *Store) File(ref string) *File {
	return &File{store: s, Ref: ref}
}

func (f *File) Metadata(ctx context.Context) (*Metadata, error) {
	return f.store.Metadata(ctx, f.Ref)
}

func (f *File) OEmbed(ctx context.Context, opts map[string]string) (OEmbed, error) {
	return f.store.OEmbed(ctx, f.Ref, opts)
}

func (f *File) EmbedCode(ctx context.Context, opts map[string]string) (string, error) {
	return f.store.EmbedCode(ctx, f.Ref, opts)
}

// OptimalFile returns the transcoded file closest to the requested size, nil if there are none.
func (f *File) OptimalFile(ctx context.Context, width, height int) (*Variant, error) {
	md, err := f.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return Optimal(md.Files, width, height), nil
}

// OptimalPicture returns the thumbnail closest to the requested size, nil if there are none.
func (f *File) OptimalPicture(ctx context.Context, width, height int) (*Variant, error) {
	md, err := f.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	if md.Pictures == nil {
		return nil, nil
	}
	return Optimal(md.Pictures.Sizes, width, height), nil
}

// OptimalDownload returns the download link closest to the requested size, nil if there are none.
func (f *File) OptimalDownload(ctx context.Context, width, height int) (*Variant, error) {
	md, err := f.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return Optimal(md.Download, width, height), nil
}
