package wadc

// RegisterStandardLibrary registers every builtin library
func (w *WadC) RegisterStandardLibrary() {
	w.RegisterMathLib()
	w.RegisterTurtleLib()
	w.RegisterSectorLib()
}
