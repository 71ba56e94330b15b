// Package cookie manages HTTP cookies with optional signing, encryption and
// read-once flash values.
//
//	mgr, err := cookie.New([]string{secret})
//
//	mgr.SetSigned(w, "admin", username)
//	name, err := mgr.GetSigned(r, "admin")
//
//	_ = mgr.SetFlash(w, "login", LoginFlash{Username: "bob", Error: "invalid credentials"})
//	var f LoginFlash
//	_ = mgr.GetFlash(w, r, "login", &f) // deletes the cookie
//
// Secrets must be at least 32 characters. Reads try every configured secret,
// so a new secret can be prepended while old cookies stay valid.
package cookie
