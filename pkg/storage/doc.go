// Package storage saves downloaded media files.
//
// Files are written to a temporary name and renamed into place, so a
// partially downloaded file never shows up under its final name. The
// Manager indexes the .jpg and .mp4 files already present in the output
// directory (and in per-user folders) on startup, which lets repeated
// downloads of the same tab skip what is already saved.
//
//	manager, err := storage.NewManager("downloads", true)
//	if err != nil {
//	    return err
//	}
//	if !manager.Exists("natgeo", "natgeo_Cabc.jpg") {
//	    path, n, err := manager.Save(body, "natgeo", "natgeo_Cabc.jpg")
//	    ...
//	}
package storage
